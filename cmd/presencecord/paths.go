package main

import "tools.zach/dev/presencecord/internal/paths"

// ///////////////////////////////////////////////
// Path Aliases
// ///////////////////////////////////////////////

// DataPaths aliases [paths.DataDir] so command code can name data files
// without qualifying the internal package.
type DataPaths = paths.DataDir
