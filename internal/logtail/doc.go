// Package logtail reads the end of marquee's own log file for the in-app log
// view.
//
// # Reading
//
// Read and ReadMatching use a ring buffer of maxLines entries, so a single
// pass over the file costs O(maxLines) memory regardless of file size. Lines
// come back in chronological order. A missing file is not an error: the view
// just shows nothing until the first line is written.
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// # Problems Filter
//
// Log lines are written by zerolog's console writer, which puts a three-letter
// level token after the timestamp ("2026-10-19 10:00:01 WRN load more
// failed ..."). Level extracts that token and IsProblem keeps warn and above,
// which is how the UI shows only the failures, including the load-more errors
// that are otherwise never surfaced on screen.
//
//	problems, err := logtail.ReadMatching(cfg.LogFile, 200, logtail.IsProblem)
package logtail
