package mylang

// / The version number of the current mylang release.
const kMylangVersion = "0.3.0"

func Version() string {
	return kMylangVersion
}
