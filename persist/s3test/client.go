// Package s3test provides an S3 client for tests: an in-process fake by
// default, or a real endpoint when JRHY_BOARD_TEST_S3_ENDPOINT is set.
package s3test

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http/httptest"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
)

const (
	endpointEnv = "JRHY_BOARD_TEST_S3_ENDPOINT"
	bucketEnv   = "JRHY_BOARD_TEST_S3_BUCKET"
	// noRegion satisfies the SDK for S3-compatible stores that ignore it.
	noRegion = "not-using-AWS"
)

// Client returns a client, the name of an empty bucket, and a func that
// empties the bucket and releases the client. A bucket named by
// JRHY_BOARD_TEST_S3_BUCKET is emptied but kept; otherwise a fresh one is
// created and removed afterwards.
func Client() (*s3.S3, string, func()) {
	var (
		client  *s3.S3
		release = func() {}
	)
	if endpoint := os.Getenv(endpointEnv); endpoint != "" {
		client = endpointClient(endpoint)
	} else {
		client, release = fakeClient()
	}

	bucket, owned := os.Getenv(bucketEnv), false
	if bucket == "" {
		bucket, owned = randomBucketName(), true
		if _, err := client.CreateBucket(&s3.CreateBucketInput{Bucket: aws.String(bucket)}); err != nil {
			panic(fmt.Sprintf("create bucket %s: %v", bucket, err))
		}
	} else if err := emptyBucket(client, bucket); err != nil {
		panic(fmt.Sprintf("empty bucket %s: %v", bucket, err))
	}

	return client, bucket, func() {
		defer release()
		_ = emptyBucket(client, bucket)
		if owned {
			_, _ = client.DeleteBucket(&s3.DeleteBucketInput{Bucket: aws.String(bucket)})
		}
	}
}

// endpointClient talks to a real S3 or S3-compatible service. With
// AWS_REGION set the SDK resolves the AWS endpoint itself.
func endpointClient(endpoint string) *s3.S3 {
	config := &aws.Config{
		Credentials: credentials.NewStaticCredentials(
			mustEnv("AWS_ACCESS_KEY_ID"),
			mustEnv("AWS_SECRET_ACCESS_KEY"),
			os.Getenv("AWS_SESSION_TOKEN"),
		),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(noRegion),
		S3ForcePathStyle: aws.Bool(true),
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		config.Region = aws.String(region)
		config.Endpoint = nil
	}
	sess, err := session.NewSession(config)
	if err != nil {
		panic(err)
	}
	return s3.New(sess)
}

// fakeClient serves an in-memory S3 over a local HTTP server.
func fakeClient() (*s3.S3, func()) {
	ts := httptest.NewServer(gofakes3.New(s3mem.New()).Server())
	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials("TEST-ACCESSKEYID", "TEST-SECRETACCESSKEY", ""),
		Endpoint:         aws.String(ts.URL),
		Region:           aws.String("ca-west-1"),
		DisableSSL:       aws.Bool(true),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		ts.Close()
		panic(err)
	}
	return s3.New(sess), ts.Close
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("environment '%s' unset", key))
	}
	return v
}

func randomBucketName() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return "board-test-" + hex.EncodeToString(b)
}

// emptyBucket deletes every object in bucket, a page at a time.
func emptyBucket(client *s3.S3, bucket string) error {
	var deleteErr error
	err := client.ListObjectsV2Pages(&s3.ListObjectsV2Input{Bucket: aws.String(bucket)},
		func(page *s3.ListObjectsV2Output, last bool) bool {
			if len(page.Contents) == 0 {
				return false
			}
			ids := make([]*s3.ObjectIdentifier, 0, len(page.Contents))
			for _, o := range page.Contents {
				ids = append(ids, &s3.ObjectIdentifier{Key: o.Key})
			}
			_, deleteErr = client.DeleteObjects(&s3.DeleteObjectsInput{
				Bucket: aws.String(bucket),
				Delete: &s3.Delete{Objects: ids},
			})
			return deleteErr == nil
		})
	if err != nil {
		return err
	}
	return deleteErr
}
