/*
Package npy reads and writes datasets stored as NumPy array files.

A dataset takes two files: one holding the predictor matrix, with
one row per sample and one column per predictor, and one holding
the label vector, laid out as a plain vector or as a single-column
matrix. Regression labels are read as they come, classification
labels are read as indexes into a class list given by the caller.
*/
package npy

import (
	"fmt"
	"io"
	"os"

	"github.com/alexwalshml/dendro/dataset"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

/*
ReadMatrix reads a NumPy array from the given io.Reader into a
gonum dense matrix. Vectors come out as single-column matrices.
*/
func ReadMatrix(r io.Reader) (*mat.Dense, error) {
	nr, err := npyio.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading npy header: %v", err)
	}
	m := &mat.Dense{}
	if err := nr.Read(m); err != nil {
		return nil, fmt.Errorf("reading npy data: %v", err)
	}
	return m, nil
}

/*
ReadMatrixFile opens the file at the given path and reads a NumPy
array from it with ReadMatrix.
*/
func ReadMatrixFile(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading npy file %s: %v", path, err)
	}
	defer f.Close()
	m, err := ReadMatrix(f)
	if err != nil {
		return nil, fmt.Errorf("reading npy file %s: %v", path, err)
	}
	return m, nil
}

/*
WriteMatrix writes the given gonum matrix to the given io.Writer
as a NumPy array file.
*/
func WriteMatrix(w io.Writer, m mat.Matrix) error {
	if err := npyio.Write(w, m); err != nil {
		return fmt.Errorf("writing npy data: %v", err)
	}
	return nil
}

/*
WriteMatrixFile creates or truncates the file at the given path
and writes the given gonum matrix to it with WriteMatrix.
*/
func WriteMatrixFile(path string, m mat.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing npy file %s: %v", path, err)
	}
	defer f.Close()
	if err := WriteMatrix(f, m); err != nil {
		return fmt.Errorf("writing npy file %s: %v", path, err)
	}
	return nil
}

/*
ReadRegression reads the predictor matrix at featuresPath and the
continuous label vector at labelsPath and returns the regression
dataset they form, with predictors named x0 through x{d-1} and the
label feature named y.
*/
func ReadRegression(featuresPath, labelsPath string) (*dataset.Memory, error) {
	x, err := ReadMatrixFile(featuresPath)
	if err != nil {
		return nil, err
	}
	labels, err := ReadMatrixFile(labelsPath)
	if err != nil {
		return nil, err
	}
	y, err := labelVector(labels)
	if err != nil {
		return nil, fmt.Errorf("reading npy file %s: %v", labelsPath, err)
	}
	return dataset.FromMat(x, y)
}

/*
ReadClassification reads the predictor matrix at featuresPath and
the label vector at labelsPath and returns the classification
dataset they form. Labels must be integral indexes into the given
class list, the way scikit-learn encodes them, and the class list
fixes the available values of the label feature, named class.
*/
func ReadClassification(featuresPath, labelsPath string, classes []string) (*dataset.Memory, error) {
	x, err := ReadMatrixFile(featuresPath)
	if err != nil {
		return nil, err
	}
	labels, err := ReadMatrixFile(labelsPath)
	if err != nil {
		return nil, err
	}
	y, err := labelVector(labels)
	if err != nil {
		return nil, fmt.Errorf("reading npy file %s: %v", labelsPath, err)
	}
	indexes := make([]int, len(y))
	for i, v := range y {
		ci := int(v)
		if float64(ci) != v {
			return nil, fmt.Errorf("reading npy file %s: label %v at sample %d: %w", labelsPath, v, i, dataset.ErrUnknownClass)
		}
		indexes[i] = ci
	}
	rows, cols := x.Dims()
	xs := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			row[j] = x.At(i, j)
		}
		xs[i] = row
	}
	return dataset.FromClasses(xs, indexes, classes)
}

func labelVector(m *mat.Dense) ([]float64, error) {
	rows, cols := m.Dims()
	switch {
	case cols == 1:
		y := make([]float64, rows)
		for i := 0; i < rows; i++ {
			y[i] = m.At(i, 0)
		}
		return y, nil
	case rows == 1:
		y := make([]float64, cols)
		for j := 0; j < cols; j++ {
			y[j] = m.At(0, j)
		}
		return y, nil
	}
	return nil, fmt.Errorf("labels hold a %dx%d matrix, expected a vector", rows, cols)
}
