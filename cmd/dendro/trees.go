package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexwalshml/dendro/tree"
	"github.com/alexwalshml/dendro/tree/json"
	"github.com/alexwalshml/dendro/tree/redisstore"
	"github.com/go-redis/redis/v8"
)

// storeKeyPrefix namespaces every model key a store command touches.
const storeKeyPrefix = "dendro"

func loadTree(filepath string) (*tree.Tree, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading tree in JSON from %s: %v", filepath, err)
	}
	defer f.Close()
	t, err := json.ReadTree(f)
	if err != nil {
		err = fmt.Errorf("parsing tree in JSON from %s: %v", filepath, err)
	}
	return t, err
}

func outputTree(outputPath string, t *tree.Tree) error {
	var f *os.File
	var err error
	if outputPath == "" {
		f = os.Stdout
	} else {
		f, err = os.Create(outputPath)
		if err != nil {
			return err
		}
	}
	defer f.Close()
	return json.WriteTree(t, f)
}

// openStore connects to the model store a redis:// URL points to.
func openStore(storeURL string) (tree.Store, error) {
	opts, err := redis.ParseURL(storeURL)
	if err != nil {
		return nil, fmt.Errorf("parsing store url %s: %v", storeURL, err)
	}
	return redisstore.New(redis.NewClient(opts), storeKeyPrefix, json.Codec{}), nil
}

// loadModel loads a tree from the JSON file at treeInput or, when a
// store URL is given, from the model stored under name in it.
func loadModel(ctx context.Context, config *rootCmdConfig, treeInput, storeURL, name string) (*tree.Tree, error) {
	if storeURL == "" {
		config.Logf("Reading tree from %s...", treeInput)
		return loadTree(treeInput)
	}
	config.Logf("Loading tree %q from store at %s...", name, storeURL)
	store, err := openStore(storeURL)
	if err != nil {
		return nil, err
	}
	defer store.Close(ctx)
	t, err := store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("no tree named %q in the store at %s", name, storeURL)
	}
	return t, nil
}

// validateTreeSource checks the flags selecting where a tree comes
// from: either a tree file or a store URL and a model name.
func validateTreeSource(treeInput, storeURL, name string) error {
	if storeURL == "" {
		if treeInput == "" {
			return fmt.Errorf("required tree flag was not set")
		}
		if name != "" {
			return fmt.Errorf("name flag requires the store flag")
		}
		return nil
	}
	if treeInput != "" {
		return fmt.Errorf("cannot set both tree and store flags at the same time")
	}
	if name == "" {
		return fmt.Errorf("required name flag was not set")
	}
	return nil
}
