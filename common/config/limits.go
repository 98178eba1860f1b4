package config

// ForCategory returns the upload limits of the given category name, and false for
// anything that isn't a known category.
func (c UploadsConfig) ForCategory(category string) (CategoryUploadsConfig, bool) {
	switch category {
	case "photo":
		return c.Photos, true
	case "video":
		return c.Videos, true
	}
	return CategoryUploadsConfig{}, false
}
