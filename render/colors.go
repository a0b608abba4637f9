package render

import "github.com/gdamore/tcell/v2"

// Palette for the sandbox view
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbDynamic    = tcell.NewRGBColor(100, 150, 255) // Normal Blue
	RgbSleepy     = tcell.NewRGBColor(60, 100, 200)  // Dark Blue for slow bodies
	RgbStatic     = tcell.NewRGBColor(180, 180, 180) // Brighter gray
	RgbSensor     = tcell.NewRGBColor(0, 139, 139)   // Dark Cyan
	RgbCenter     = tcell.NewRGBColor(255, 165, 0)   // Orange
	RgbContact    = tcell.NewRGBColor(255, 80, 80)   // Normal Red
	RgbStatusBar  = tcell.NewRGBColor(255, 255, 255) // White
	RgbPaused     = tcell.NewRGBColor(255, 255, 0)   // Bright Yellow
)
