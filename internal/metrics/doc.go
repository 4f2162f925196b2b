// Package metrics records build and step metrics.
//
// Components receive a Recorder and default to NoopRecorder, so nothing is
// collected unless a run asks for it:
//
//	recorder := metrics.NewPrometheusRecorder(nil)
//	runner.WithRecorder(recorder)
//	...
//	_ = metrics.WriteTextfile("ndsdist.prom", recorder.Registry())
//
// A one-shot CLI has no scrape endpoint, so metrics leave the process as a
// textfile for node_exporter.
package metrics
