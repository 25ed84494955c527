// Package core reconstructs exam schedule tables from positioned PDF text.
//
// The published exam plan is a PDF without table structure: every cell is a
// loose text fragment with an x/y position. This package rebuilds the table.
// The reconstruction itself ([Parse] and the steps below) is pure: it works
// on decoded pages, does no I/O and keeps no state. The [Service] around it
// owns the stateful parts: source files, the parse cache, the filter index
// and the [ScheduleStore].
//
// # Pipeline
//
// [Parse] runs the reconstruction on already decoded pages:
//
//  1. [MergePages] recombines wide tables printed as a run of left-half pages
//     followed by a run of right-half pages.
//  2. [ResolveHeaders] (or [DetectHeaders]) derives column edges and labels
//     from the header region of the first page.
//  3. [BindColumns] binds the labels to the registered column keys and fails
//     with a [*HeaderMismatchError] when they disagree.
//  4. Fragments below the header are clustered with [GroupByRows] and each
//     row is turned into one record by [AssembleRow].
//
// # Column Registry
//
// Columns are registered at init time using [Register]. Each
// [ColumnDefinition] carries the display metadata and the classifier that
// decides whether a fragment may land in that column:
//
//	core.Register(core.ColumnDefinition{
//	    Key:     "datum",
//	    Label:   "Datum",
//	    Width:   100,
//	    Accepts: core.ISODate(),
//	})
//
// The exam plan columns live in package columns.
//
// # Service
//
// [Service] keeps the current schedule of every plan, parses uploads and
// file sources under a [ParseLimiter], caches parse results by content hash
// and answers filtered queries through package index.
package core
