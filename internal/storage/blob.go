package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// blobStreamer is the part of *azblob.Client the source needs
type blobStreamer interface {
	DownloadStream(ctx context.Context, containerName, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error)
}

// BlobSource streams the dataset from an Azure Storage blob
type BlobSource struct {
	client    blobStreamer
	container string
	blob      string
}

// NewBlobSource connects with a storage account connection string, the same
// value the Functions host reads from AzureWebJobsStorage.
func NewBlobSource(connectionString, container, blob string) (*BlobSource, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create blob client: %w", err)
	}
	return newBlobSource(client, container, blob), nil
}

func newBlobSource(client blobStreamer, container, blob string) *BlobSource {
	return &BlobSource{client: client, container: container, blob: blob}
}

func (s *BlobSource) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, s.blob, nil)
	if err != nil {
		return nil, unavailable(s.Describe(), err)
	}
	if resp.Body == nil {
		return nil, unavailable(s.Describe(), fmt.Errorf("empty response body"))
	}
	return resp.Body, nil
}

func (s *BlobSource) Describe() string {
	return fmt.Sprintf("azblob:%s/%s", s.container, s.blob)
}
