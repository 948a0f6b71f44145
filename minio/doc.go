// Package minio provides a MinIO/S3-compatible backend (scheme "s3").
//
// Objects are files. Directories are virtual: a directory exists while at
// least one object key has its path as a prefix, and it has no modification
// time of its own. The root always exists once the bucket does.
//
//	b, err := minio.New(core.Config{
//	    Location: "my-bucket/site",
//	    Options: core.Options{
//	        "endpoint":   "localhost:9000",
//	        "access_key": "minioadmin",
//	        "secret_key": "minioadmin",
//	    },
//	})
//
// Init verifies that the bucket exists. Writes create intermediate
// directories implicitly; writing over a virtual directory fails with
// IS_A_DIRECTORY, and writing below an existing object fails with
// NOT_A_DIRECTORY.
package minio
