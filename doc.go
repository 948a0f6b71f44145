// Package vfs wires the bundled backends into a registry and opens them from
// URLs or YAML mount tables.
//
// The core contract lives in package core; backends live in billy (schemes
// "file" and "mem"), minio ("s3") and archive ("archive"). This package is
// the entry point for applications that select backends by configuration:
//
//	reg := vfs.NewRegistry()
//	b, err := vfs.OpenURL(ctx, reg, "archive:///srv/site.tar.gz", nil)
//	if err != nil {
//	    return err
//	}
//	defer b.Close()
//
//	nodes, err := core.GetDir(ctx, b, "/", &core.GetDirOptions{SortBy: core.SortByMtime})
//
// A mount table names several backends at once:
//
//	log:
//	  level: debug
//	  format: json
//	mounts:
//	  - name: site
//	    url: file:///srv/site
//	  - name: assets
//	    scheme: s3
//	    location: assets-bucket/v2
//	    options:
//	      endpoint: localhost:9000
//	      access_key: minioadmin
//	      secret_key: minioadmin
//	  - name: bundle
//	    scheme: archive
//	    location: /bundles/latest.tar.zst
//	    source: assets
package vfs
