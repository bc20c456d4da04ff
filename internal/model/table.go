package model

// Table describes one seat group on the restaurant's floor plan.  The
// position is stored in pixel coordinates as laid out by the admin in the
// floor-plan editor; the database columns are x and y while the HTTP
// surface exposes them as left and top.
//
// Fields:
//  ID     – primary key identifier (server-assigned).
//  Left   – horizontal pixel position (tables.x).
//  Top    – vertical pixel position (tables.y).
//  Size   – seating capacity.
//  Inside – true for indoor tables, false for outdoor.
type Table struct {
	ID     uint64 // tables.id
	Left   int    // tables.x
	Top    int    // tables.y
	Size   int    // tables.size
	Inside bool   // tables.inside
}
