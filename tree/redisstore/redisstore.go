package redisstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/alexwalshml/dendro/tree"
	"github.com/go-redis/redis/v8"
)

/*
EncodeDecoder is an interface for objects that allow encoding
trees into slices of bytes and decoding them back to trees.
*/
type EncodeDecoder interface {

	//Encode receives a *tree.Tree
	//and returns a slice of bytes with the tree
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*tree.Tree) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *tree.Tree decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*tree.Tree, error)
}

type redisStore struct {
	rc     *redis.Client
	prefix string
	encdec EncodeDecoder
}

//New builds a tree.Store backed by a redis DB
func New(rc *redis.Client, prefix string, encdec EncodeDecoder) tree.Store {
	return &redisStore{rc, prefix, encdec}
}

func (rs *redisStore) Save(ctx context.Context, name string, t *tree.Tree) error {
	data, err := rs.encdec.Encode(t)
	if err != nil {
		return fmt.Errorf("storing tree %q: encoding tree: %v", name, err)
	}
	err = rs.rc.Set(ctx, rs.keyFor(name), data, 0).Err()
	if err != nil {
		return fmt.Errorf("storing tree %q in redis: %v", name, err)
	}
	return nil
}

func (rs *redisStore) Load(ctx context.Context, name string) (*tree.Tree, error) {
	data, err := rs.rc.Get(ctx, rs.keyFor(name)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("retrieving tree %q: %v", name, err)
	}
	t, err := rs.encdec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: decoding tree: %v", name, err)
	}
	return t, nil
}

func (rs *redisStore) List(ctx context.Context) ([]string, error) {
	keys, err := rs.rc.Keys(ctx, rs.keyFor("*")).Result()
	if err != nil {
		return nil, fmt.Errorf("listing trees in redis: %v", err)
	}
	names := make([]string, 0, len(keys))
	keyPrefix := rs.keyFor("")
	for _, k := range keys {
		names = append(names, strings.TrimPrefix(k, keyPrefix))
	}
	sort.Strings(names)
	return names, nil
}

func (rs *redisStore) Delete(ctx context.Context, name string) error {
	err := rs.rc.Del(ctx, rs.keyFor(name)).Err()
	if err != nil {
		return fmt.Errorf("deleting tree %q from redis: %v", name, err)
	}
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return rs.rc.Close()
}

func (rs *redisStore) keyFor(name string) string {
	return fmt.Sprintf("%s:models:%s", rs.prefix, name)
}
