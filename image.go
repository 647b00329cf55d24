package msagent

// ImageCount returns the number of images in the archive.
func (a *Archive) ImageCount() int { return a.store.Len() }

// ImageDimensions returns an image's width and height without decoding
// its pixel plane.
func (a *Archive) ImageDimensions(index int) (width, height int, err error) {
	return a.store.Dimensions(index)
}
