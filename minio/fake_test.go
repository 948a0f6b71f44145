package minio

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

var fakeModTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type fakeObject struct {
	data    []byte
	modTime time.Time
}

func (o fakeObject) etag() string {
	sum := md5.Sum(o.data)
	return hex.EncodeToString(sum[:])
}

func (o fakeObject) writeHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Length", strconv.Itoa(len(o.data)))
	h.Set("Content-Type", "application/octet-stream")
	h.Set("ETag", `"`+o.etag()+`"`)
	h.Set("Last-Modified", o.modTime.UTC().Format(http.TimeFormat))
}

// fakeS3 is a path-style S3 endpoint serving one bucket from memory. It
// answers bucket HEAD, ListObjectsV2, object HEAD and object GET; any other
// request is recorded and rejected.
type fakeS3 struct {
	bucket string

	mu      sync.Mutex
	objects map[string]fakeObject

	// stale holds an older version of a key that HEAD keeps serving, as a
	// replace racing a reader would look.
	stale    map[string]fakeObject
	rejected []string
}

// newFakeS3 starts a fake endpoint for bucket holding objects (key to
// content) and returns its host:port.
func newFakeS3(t *testing.T, bucket string, objects map[string]string) (string, *fakeS3) {
	t.Helper()

	f := &fakeS3{
		bucket:  bucket,
		objects: make(map[string]fakeObject, len(objects)),
		stale:   make(map[string]fakeObject),
	}
	for key, content := range objects {
		f.objects[key] = fakeObject{data: []byte(content), modTime: fakeModTime}
	}

	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return strings.TrimPrefix(srv.URL, "http://"), f
}

// fakeBucketServer starts a fake endpoint for an empty bucket.
func fakeBucketServer(t *testing.T, bucket string) string {
	t.Helper()
	endpoint, _ := newFakeS3(t, bucket, nil)
	return endpoint
}

func (f *fakeS3) setStale(key, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stale[key] = fakeObject{data: []byte(content), modTime: fakeModTime.Add(-time.Hour)}
}

func (f *fakeS3) rejectedRequests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.rejected)
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if bucket != f.bucket {
		writeS3Error(w, r, http.StatusNotFound, "NoSuchBucket")
		return
	}

	switch {
	case key == "" && r.Method == http.MethodHead:
		w.WriteHeader(http.StatusOK)
	case key == "" && r.Method == http.MethodGet && r.URL.Query().Get("list-type") == "2":
		f.list(w, r)
	case key != "" && r.Method == http.MethodHead:
		obj, ok := f.stale[key]
		if !ok {
			obj, ok = f.objects[key]
		}
		if !ok {
			writeS3Error(w, r, http.StatusNotFound, "NoSuchKey")
			return
		}
		obj.writeHeaders(w)
		w.WriteHeader(http.StatusOK)
	case key != "" && r.Method == http.MethodGet:
		obj, ok := f.objects[key]
		if !ok {
			writeS3Error(w, r, http.StatusNotFound, "NoSuchKey")
			return
		}
		obj.writeHeaders(w)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(obj.data)
	default:
		f.rejected = append(f.rejected, r.Method+" "+r.URL.Path)
		writeS3Error(w, r, http.StatusNotImplemented, "NotImplemented")
	}
}

type listBucketResult struct {
	XMLName        xml.Name      `xml:"ListBucketResult"`
	Name           string        `xml:"Name"`
	Prefix         string        `xml:"Prefix"`
	Delimiter      string        `xml:"Delimiter,omitempty"`
	KeyCount       int           `xml:"KeyCount"`
	MaxKeys        int           `xml:"MaxKeys"`
	IsTruncated    bool          `xml:"IsTruncated"`
	Contents       []listContent `xml:"Contents"`
	CommonPrefixes []listPrefix  `xml:"CommonPrefixes"`
}

type listContent struct {
	Key          string `xml:"Key"`
	LastModified string `xml:"LastModified"`
	ETag         string `xml:"ETag"`
	Size         int64  `xml:"Size"`
	StorageClass string `xml:"StorageClass"`
}

type listPrefix struct {
	Prefix string `xml:"Prefix"`
}

// list answers ListObjectsV2 in a single page.
func (f *fakeS3) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	prefix, delimiter := q.Get("prefix"), q.Get("delimiter")

	keys := make([]string, 0, len(f.objects))
	for key := range f.objects {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	res := listBucketResult{Name: f.bucket, Prefix: prefix, Delimiter: delimiter, MaxKeys: 1000}
	seen := make(map[string]bool)
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := key[len(prefix):]
		if delimiter != "" {
			if i := strings.Index(rest, delimiter); i >= 0 {
				common := prefix + rest[:i+len(delimiter)]
				if !seen[common] {
					seen[common] = true
					res.CommonPrefixes = append(res.CommonPrefixes, listPrefix{Prefix: common})
				}
				continue
			}
		}
		obj := f.objects[key]
		res.Contents = append(res.Contents, listContent{
			Key:          key,
			LastModified: obj.modTime.UTC().Format(time.RFC3339),
			ETag:         `"` + obj.etag() + `"`,
			Size:         int64(len(obj.data)),
			StorageClass: "STANDARD",
		})
	}
	res.KeyCount = len(res.Contents) + len(res.CommonPrefixes)

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_ = xml.NewEncoder(w).Encode(res)
}

type s3Error struct {
	XMLName xml.Name `xml:"Error"`
	Code    string   `xml:"Code"`
	Message string   `xml:"Message"`
}

func writeS3Error(w http.ResponseWriter, r *http.Request, status int, code string) {
	if r.Method == http.MethodHead {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_ = xml.NewEncoder(w).Encode(s3Error{Code: code, Message: code})
}
