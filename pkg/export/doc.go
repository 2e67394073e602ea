// Package export writes rendered snapshots to local disk or S3.
//
// A Snapshot is the serialized host tree of a render session at one point
// in time. Exporters store it and return its location:
//
//	disk, _ := export.NewDiskExporter("snapshots")
//	loc, err := disk.Export(ctx, &export.Snapshot{Demo: "counter", HTML: root.InnerHTML()})
//
// The S3 exporter takes any client with a PutObject method so tests can
// replace the AWS client:
//
//	client := export.NewS3Client("eu-west-1")
//	s3x := export.NewS3Exporter(client, "my-bucket", "snapshots/")
package export
