// Package minio stores voice models in MinIO or any other S3-compatible
// server (Ceph, Garage, SeaweedFS) without pulling in the AWS SDK.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds: credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "voices", "zh-CN/xiaoxiao")
//	model, err := cartkit.Open(ctx, store)
package minio
