package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/jrhy/board"
)

// DefaultCacheSize is how many recently used cells a Persist keeps in memory.
const DefaultCacheSize = 1000

type S3Interface interface {
	GetObjectWithContext(ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error)
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// Persist implements the board.Persist interface for storing and loading
// cells as objects in a bucket. Unless built with a cache size of zero,
// writes go through a small LRU that also holds counters and friend sets,
// so a board that is the only writer to its prefix rereads them without a
// round trip.
type Persist struct {
	s3         S3Interface
	BucketName string
	Prefix     string
	l          sync.Mutex
	lru        *simplelru.LRU
}

// Load loads the bytes persisted in the named object.
func (p *Persist) Load(ctx context.Context, name string) ([]byte, error) {
	if cached, ok := p.cached(name); ok {
		return cached, nil
	}
	input := s3.GetObjectInput{
		Bucket: &p.BucketName,
		Key:    aws.String(p.Prefix + name),
	}
	output, err := p.s3.GetObjectWithContext(ctx, &input)
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, fmt.Errorf("%s%s: %w", p.Prefix, name, board.ErrNotFound)
		}
		return nil, err
	}
	defer output.Body.Close()
	b, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, err
	}
	p.remember(name, b)
	return b, nil
}

// Store persists the given bytes as the named object, replacing any
// previous version.
func (p *Persist) Store(ctx context.Context, name string, b []byte) error {
	input := s3.PutObjectInput{
		Bucket: &p.BucketName,
		Key:    aws.String(p.Prefix + name),
		Body:   bytes.NewReader(b),
	}
	_, err := p.s3.PutObjectWithContext(ctx, &input)
	if err != nil {
		return err
	}
	p.remember(name, b)
	return nil
}

func (p *Persist) cached(name string) ([]byte, bool) {
	if p.lru == nil {
		return nil, false
	}
	p.l.Lock()
	v, ok := p.lru.Get(name)
	p.l.Unlock()
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v.([]byte)...), true
}

func (p *Persist) remember(name string, b []byte) {
	if p.lru == nil {
		return
	}
	p.l.Lock()
	p.lru.Add(name, append([]byte(nil), b...))
	p.l.Unlock()
}

// NewPersist returns a Persist that loads and stores cells as
// objects with the given S3 client, bucket name and key prefix. It
// caches DefaultCacheSize cells and so assumes it is the only writer
// under prefix: another writer's counter updates would go unseen, and
// appends would overwrite its records. Use NewPersistWithCacheSize with
// size 0 when the prefix is shared.
func NewPersist(client S3Interface, bucketName, prefix string) *Persist {
	return NewPersistWithCacheSize(client, bucketName, prefix, DefaultCacheSize)
}

// NewPersistWithCacheSize is NewPersist with an explicit cache size; a
// size of zero reads every cell from the bucket.
func NewPersistWithCacheSize(client S3Interface, bucketName, prefix string, size int) *Persist {
	if size <= 0 {
		return &Persist{s3: client, BucketName: bucketName, Prefix: prefix}
	}
	lru, err := simplelru.NewLRU(size, nil)
	if err != nil {
		panic(err)
	}
	return &Persist{s3: client, BucketName: bucketName, Prefix: prefix, lru: lru}
}
