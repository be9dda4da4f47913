package tree

import "fmt"

/*
Task tells a regression tree apart from a classification tree. It
selects the leaf-value policy and the default splitting criterion
when growing, and which accessors of a Prediction apply when
predicting.
*/
type Task string

/*
The two tasks a tree can be grown for
*/
const (
	Regression     Task = "regression"
	Classification Task = "classification"
)

/*
ParseTask takes a task name and returns the Task it names or an
error when the name is unknown.
*/
func ParseTask(name string) (Task, error) {
	switch Task(name) {
	case Regression:
		return Regression, nil
	case Classification:
		return Classification, nil
	}
	return "", fmt.Errorf("unknown task %q", name)
}
