package common

// InventorySheet is the worksheet holding one row per scanned machine.
const InventorySheet = "SystemInfo"

// ProjectsSubdir is the directory, relative to the working directory or the
// executable, where canonical inventory containers live.
const ProjectsSubdir = "proyectos"
