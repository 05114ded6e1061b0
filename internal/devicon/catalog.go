// Package devicon renders "dev build" variants of an application icon.
//
// A single source PNG is resized into the fixed set of sizes a Tauri app
// ships, each variant large enough to read gets a badge in its bottom-right
// corner, and the results are packaged as a Windows .ico and a macOS .icns.
//
// The .icns step shells out to iconutil. When iconutil is missing or fails
// the staging .iconset directory is kept for inspection and the rest of the
// output stays valid.
package devicon

import "path/filepath"

// SizeSpec names one square output image.
type SizeSpec struct {
	Filename string
	Size     int
}

// PNGCatalog is the set of PNG files written to the output directory.
var PNGCatalog = []SizeSpec{
	{"32x32.png", 32},
	{"64x64.png", 64},
	{"128x128.png", 128},
	{"128x128@2x.png", 256},
	{"icon.png", 512},
	// Windows store logos
	{"Square30x30Logo.png", 30},
	{"Square44x44Logo.png", 44},
	{"Square71x71Logo.png", 71},
	{"Square89x89Logo.png", 89},
	{"Square107x107Logo.png", 107},
	{"Square142x142Logo.png", 142},
	{"Square150x150Logo.png", 150},
	{"Square284x284Logo.png", 284},
	{"Square310x310Logo.png", 310},
	{"StoreLogo.png", 50},
}

// ICOSizes are the resolutions packed into icon.ico.
var ICOSizes = []int{16, 24, 32, 48, 64, 128, 256}

// ICNSCatalog follows iconutil's .iconset naming. @2x entries share a pixel
// size with the next size up.
var ICNSCatalog = []SizeSpec{
	{"icon_16x16.png", 16},
	{"icon_16x16@2x.png", 32},
	{"icon_32x32.png", 32},
	{"icon_32x32@2x.png", 64},
	{"icon_128x128.png", 128},
	{"icon_128x128@2x.png", 256},
	{"icon_256x256.png", 256},
	{"icon_256x256@2x.png", 512},
	{"icon_512x512.png", 512},
	{"icon_512x512@2x.png", 1024},
}

// Output file names inside the output directory.
const (
	ICOFileName    = "icon.ico"
	ICNSFileName   = "icon.icns"
	StagingDirName = "icon.iconset"
)

// StagingDir returns the .iconset directory used while building icon.icns.
func StagingDir(outDir string) string {
	return filepath.Join(outDir, StagingDirName)
}
