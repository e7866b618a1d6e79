package config

// Convention method names. A type carrying one of these with the right
// shape declares the matching capability without any explicit marker.
const (
	ToBoolMethodName   = "ToBool"
	ToStringMethodName = "ToString"
	ToIntMethodName    = "ToInt"
	ToFloatMethodName  = "ToFloat"
	ItemMethodName     = "Item"
	LenMethodName      = "Len"
)

// ManifestFileExtensions are all recognized manifest file extensions.
var ManifestFileExtensions = []string{".yaml", ".yml"}
