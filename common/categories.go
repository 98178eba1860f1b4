package common

// Category is the kind of media a stored object holds. It is fixed at upload time and
// selects the partition the object lives in.
type Category string

const (
	CategoryPhoto Category = "photo"
	CategoryVideo Category = "video"
)

var AllCategories = []Category{CategoryPhoto, CategoryVideo}

func ParseCategory(s string) (Category, bool) {
	for _, c := range AllCategories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Partition is the datastore partition ("bucket") holding objects of this category.
func (c Category) Partition() string {
	switch c {
	case CategoryPhoto:
		return "photos"
	case CategoryVideo:
		return "videos"
	}
	return ""
}
