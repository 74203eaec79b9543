// Package s3 stores voice models in Amazon S3.
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil { ... }
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "voices", "zh-CN/xiaoxiao")
//	model, err := cartkit.Open(ctx, store)
//
// Reads use ranged GETs; writes go through the managed uploader, which
// switches to multipart uploads for large trees.
package s3
