package domain

// DatasetManifest lists the files making up one bulk dataset, e.g.
// the boundary files of a historical polity, one per snapshot year.
type DatasetManifest struct {
	// Files are the dataset members, in download order.
	Files []DatasetFile `json:"files"`
}

// DatasetFile is one member of a bulk dataset.
type DatasetFile struct {
	// Name is the file name within the dataset.
	Name string `json:"name"`

	// URL is where the file is downloaded from.
	URL string `json:"url"`
}
