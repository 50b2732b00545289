package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/photovault/internal/common"
)

type fakeS3 struct {
	putIn    *s3.PutObjectInput
	putErr   error
	copyIn   *s3.CopyObjectInput
	copyErr  error
	delKeys  []string
	delErr   error
	listIns  []*s3.ListObjectsV2Input
	listOuts []*s3.ListObjectsV2Output
	listErr  error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putIn = in
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) CopyObject(ctx context.Context, in *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	f.copyIn = in
	if f.copyErr != nil {
		return nil, f.copyErr
	}
	return &s3.CopyObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.delKeys = append(f.delKeys, aws.ToString(in.Key))
	if f.delErr != nil {
		return nil, f.delErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.listIns = append(f.listIns, in)
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := f.listOuts[0]
	f.listOuts = f.listOuts[1:]
	return out, nil
}

func newRemote(f *fakeS3) *S3Remote {
	return newS3Remote(f, "gallery", "http://cdn.example.com/")
}

func TestUpload_BuildsURLs(t *testing.T) {
	f := &fakeS3{}
	r := newRemote(f)

	obj, err := r.Upload(context.Background(), "summer/beach.jpg", "image/jpeg", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if aws.ToString(f.putIn.Key) != "summer/beach.jpg" {
		t.Fatalf("unexpected key: %v", f.putIn.Key)
	}
	if obj.URL != "http://cdn.example.com/gallery/summer/beach.jpg" {
		t.Fatalf("unexpected URL: %s", obj.URL)
	}
	if obj.SecureURL != "https://cdn.example.com/gallery/summer/beach.jpg" {
		t.Fatalf("unexpected SecureURL: %s", obj.SecureURL)
	}
	if obj.Folder != "summer" {
		t.Fatalf("unexpected folder: %s", obj.Folder)
	}
}

func TestUpload_Error(t *testing.T) {
	f := &fakeS3{putErr: errors.New("quota exceeded")}
	r := newRemote(f)

	_, err := r.Upload(context.Background(), "k", "image/png", strings.NewReader(""))
	if !errors.Is(err, common.ErrorUploadFailed) {
		t.Fatalf("expected ErrorUploadFailed, got %v", err)
	}
}

func TestRename_CopyThenDelete(t *testing.T) {
	f := &fakeS3{}
	r := newRemote(f)

	obj, err := r.Rename(context.Background(), "a/x.jpg", "b/x.jpg")
	if err != nil {
		t.Fatalf("Rename error: %v", err)
	}
	if aws.ToString(f.copyIn.Key) != "b/x.jpg" {
		t.Fatalf("unexpected copy target: %v", f.copyIn.Key)
	}
	if len(f.delKeys) != 1 || f.delKeys[0] != "a/x.jpg" {
		t.Fatalf("source not deleted: %v", f.delKeys)
	}
	if obj.Key != "b/x.jpg" || obj.Folder != "b" {
		t.Fatalf("unexpected object: %+v", obj)
	}
}

func TestRename_CopyFails_SourceUntouched(t *testing.T) {
	f := &fakeS3{copyErr: errors.New("target exists")}
	r := newRemote(f)

	_, err := r.Rename(context.Background(), "a/x.jpg", "b/x.jpg")
	if !errors.Is(err, common.ErrorRenameFailed) {
		t.Fatalf("expected ErrorRenameFailed, got %v", err)
	}
	if len(f.delKeys) != 0 {
		t.Fatalf("source must not be deleted when copy fails: %v", f.delKeys)
	}
}

func TestList_FollowsContinuationTokens(t *testing.T) {
	f := &fakeS3{
		listOuts: []*s3.ListObjectsV2Output{
			{
				Contents: []types.Object{
					{Key: aws.String("summer/a.jpg"), Size: aws.Int64(10)},
					{Key: aws.String("summer/b.jpg"), Size: aws.Int64(20)},
				},
				IsTruncated:           aws.Bool(true),
				NextContinuationToken: aws.String("tok-1"),
			},
			{
				Contents: []types.Object{
					{Key: aws.String("winter/c.jpg"), Size: aws.Int64(30)},
				},
				IsTruncated: aws.Bool(false),
			},
		},
	}
	r := newRemote(f)

	objs, err := r.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(objs) != 3 {
		t.Fatalf("expected 3 objects across pages, got %d", len(objs))
	}
	if len(f.listIns) != 2 {
		t.Fatalf("expected 2 page requests, got %d", len(f.listIns))
	}
	if aws.ToString(f.listIns[1].ContinuationToken) != "tok-1" {
		t.Fatalf("continuation token not forwarded")
	}
	if objs[2].Key != "winter/c.jpg" || objs[2].SizeBytes != 30 {
		t.Fatalf("unexpected last object: %+v", objs[2])
	}
}

func TestListFolders(t *testing.T) {
	f := &fakeS3{
		listOuts: []*s3.ListObjectsV2Output{
			{
				CommonPrefixes: []types.CommonPrefix{
					{Prefix: aws.String("summer/")},
					{Prefix: aws.String("winter/")},
				},
				IsTruncated: aws.Bool(false),
			},
		},
	}
	r := newRemote(f)

	folders, err := r.ListFolders(context.Background())
	if err != nil {
		t.Fatalf("ListFolders error: %v", err)
	}
	if len(folders) != 2 || folders[0] != "summer" || folders[1] != "winter" {
		t.Fatalf("unexpected folders: %v", folders)
	}
	if aws.ToString(f.listIns[0].Delimiter) != "/" {
		t.Fatalf("delimiter not set")
	}
}

func TestKeyHelpers(t *testing.T) {
	if FolderOf("summer/beach.jpg") != "summer" {
		t.Fatalf("FolderOf folder")
	}
	if FolderOf("root.jpg") != "" {
		t.Fatalf("FolderOf root")
	}
	if FolderOf("uncategorized/x.jpg") != "" {
		t.Fatalf("FolderOf uncategorized")
	}
	if BaseName("summer/beach.jpg") != "beach.jpg" {
		t.Fatalf("BaseName")
	}
	if !IsPlaceholder(PlaceholderKey("summer")) {
		t.Fatalf("IsPlaceholder")
	}
	if IsPlaceholder("summer/photo.jpg") {
		t.Fatalf("IsPlaceholder false positive")
	}
}
