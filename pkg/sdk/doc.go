// Package dimtol provides a Go client for the dimtol dimensional-tolerance
// service backed by Redis with the JSON module.
//
// The recognizer and evaluator are pure and need no client:
//
//	res, ok := dimtol.Recognize("25.55±0.1")
//	out := dimtol.Evaluate("25.4 / 25.9", res.LowerLimit, res.UpperLimit)
//
// Persistence and lot workflows go through a Client:
//
//	client, _ := dimtol.New(ctx, dimtol.WithRedis("localhost:6379", ""))
//	defer client.Close()
//	recs, stats, _ := client.Lot("L-042").Ingest(ctx, rows)
//	rec, out, _ := client.Lot("L-042").RecordMeasurement(ctx, "12", "25.49")
package dimtol
