package model

// bitCounts maps a 6-bit window of three packed cells (left in bits 4-5, centre in
// bits 2-3, right in bits 0-1) to the number of those cells whose current bit
// (bits 0, 2 and 4) is set. Next-state bits never contribute.
var bitCounts = [windowLen]uint8{
	0, 1, 0, 1, 1, 2, 1, 2,
	0, 1, 0, 1, 1, 2, 1, 2,
	1, 2, 1, 2, 2, 3, 2, 3,
	1, 2, 1, 2, 2, 3, 2, 3,
	0, 1, 0, 1, 1, 2, 1, 2,
	0, 1, 0, 1, 1, 2, 1, 2,
	1, 2, 1, 2, 2, 3, 2, 3,
	1, 2, 1, 2, 2, 3, 2, 3,
}
