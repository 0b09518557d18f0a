// Package task runs a payload through a processor between a source and a
// sink:
//
//	t, err := task.New(
//		task.SourceWithLogging(reader, log),
//		p,
//		task.SinkWithLogging(writer, log),
//		task.WithSourceParams(map[string]any{"path": "in.wav"}),
//	)
//	data, pctx, err := t.Run(ctx)
package task
