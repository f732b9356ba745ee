// Package chunker divides source files into line-numbered windows for embedding
// and search, and filters out windows that carry no useful signal.
//
// The chunker does not parse any language. It scans lines in order and keeps a
// running brace depth for the current window.
//
// # Basic Usage
//
//	c := chunker.New()
//	windows, err := c.ChunkFile("/path/to/Service.cs")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, w := range windows {
//	    if !chunker.IsMeaningful(w.Content) {
//	        continue
//	    }
//	    fmt.Printf("lines %d-%d\n", w.StartLine, w.EndLine)
//	}
//
// # Window Boundaries
//
// A window closes when the brace depth is zero and either
//   - the window has reached the target size (DefaultChunkSize lines), or
//   - the current line is non-blank.
//
// The second rule closes small brace-balanced windows eagerly, so every
// top-level statement or block ends a window. Retrieval granularity depends on
// this, so it is kept as-is.
//
// Each new window is seeded with the last DefaultOverlap lines of the previous
// one. Seed lines do not contribute to the new window's brace depth. A trailing
// window at end of file is emitted even when it is below the target size.
//
// # Meaningful Code
//
// IsMeaningful keeps windows with at least three code lines (not blank, not
// //, /* or * comment lines) or with a structural keyword such as class,
// return or public on a code line. Windows failing both are dropped before any
// embedding call.
package chunker
