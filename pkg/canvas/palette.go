package canvas

import "image/color"

// Dark2 is the 8-color qualitative palette used for categorical color bars,
// matching the matplotlib/ColorBrewer palette of the same name. When a bar
// has more unique values than palette entries the colors cycle, so segment
// text labels stay the distinguishing mark.
var Dark2 = []color.RGBA{
	{27, 158, 119, 255},
	{217, 95, 2, 255},
	{117, 112, 179, 255},
	{231, 41, 138, 255},
	{102, 166, 30, 255},
	{230, 171, 2, 255},
	{166, 118, 29, 255},
	{102, 102, 102, 255},
}
