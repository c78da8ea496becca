package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	awss3 "github.com/aws/aws-sdk-go/service/s3"
	"gopkg.in/yaml.v3"

	"github.com/jrhy/board"
	"github.com/jrhy/board/persist/file"
	"github.com/jrhy/board/persist/leveldb"
	"github.com/jrhy/board/persist/pebble"
	"github.com/jrhy/board/persist/s3"
)

// Config is the file form of the settings a board is opened with.
type Config struct {
	Backend   string   `yaml:"backend"`
	Path      string   `yaml:"path"`
	Prefix    string   `yaml:"prefix"`
	Hash      string   `yaml:"hash"`
	Format    string   `yaml:"format"`
	CacheSize int      `yaml:"cache_size"`
	Sync      bool     `yaml:"sync"`
	S3        S3Config `yaml:"s3"`
}

// S3Config locates the bucket for the s3 backend.
type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
}

// DefaultConfig keeps a board in files under ./board-data.
func DefaultConfig() Config {
	return Config{
		Backend: "file",
		Path:    "board-data",
		Hash:    "keccak256",
		Format:  "json",
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file
// is not an error when optional is set.
func LoadConfig(path string, optional bool) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) && optional {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) hash() (board.HashFunc, error) {
	switch c.Hash {
	case "", "keccak256":
		return board.Keccak256, nil
	case "blake2b":
		return board.Blake2b256, nil
	}
	return nil, fmt.Errorf("unknown hash %q: must be keccak256 or blake2b", c.Hash)
}

func (c Config) format() (board.Format, error) {
	switch c.Format {
	case "", "json":
		return board.FormatJSON, nil
	case "binary":
		return board.FormatBinary, nil
	}
	return 0, fmt.Errorf("unknown format %q: must be json or binary", c.Format)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openPersist opens the configured backend.
func (c Config) openPersist() (board.Persist, io.Closer, error) {
	var (
		p      board.Persist
		closer io.Closer = nopCloser{}
	)
	switch c.Backend {
	case "memory":
		p = board.NewInMemoryStore()
	case "file", "":
		fp, err := file.NewPersistForPath(c.Path)
		if err != nil {
			return nil, nil, err
		}
		p = fp
	case "leveldb":
		lp, err := leveldb.Open(c.Path, c.Sync)
		if err != nil {
			return nil, nil, err
		}
		p, closer = lp, lp
	case "pebble":
		pp, err := pebble.Open(c.Path, c.Sync)
		if err != nil {
			return nil, nil, err
		}
		p, closer = pp, pp
	case "s3":
		if c.S3.Bucket == "" {
			return nil, nil, fmt.Errorf("s3 backend needs s3.bucket")
		}
		awsConfig := aws.Config{S3ForcePathStyle: aws.Bool(c.S3.Endpoint != "")}
		if c.S3.Endpoint != "" {
			awsConfig.Endpoint = aws.String(c.S3.Endpoint)
		}
		if c.S3.Region != "" {
			awsConfig.Region = aws.String(c.S3.Region)
		}
		sess, err := session.NewSession(&awsConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("s3 session: %w", err)
		}
		// the prefix is applied below, for every backend alike
		p = s3.NewPersist(awss3.New(sess), c.S3.Bucket, "")
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Prefix != "" {
		p = board.WithPrefix(p, c.Prefix)
	}
	return p, closer, nil
}

// boardConfig turns the file settings into a board.Config over p.
func (c Config) boardConfig(p board.Persist) (*board.Config, error) {
	h, err := c.hash()
	if err != nil {
		return nil, err
	}
	f, err := c.format()
	if err != nil {
		return nil, err
	}
	bc := &board.Config{Persist: p, Hash: h, Format: f}
	if c.CacheSize > 0 {
		bc.RecordCache = board.NewRecordCache(c.CacheSize)
	}
	return bc, nil
}
