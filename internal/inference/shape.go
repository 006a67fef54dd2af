package inference

import "fmt"

// ShapeOf derives the normalized shape of a correction, used to group
// semantically similar edits under one pattern identity regardless of the
// raw values involved. Pairs explained by the same transformation share a
// shape; otherwise the shape is the skeleton rewrite itself.
func ShapeOf(original, corrected string) string {
	if c := classify(original, corrected); c != nil {
		switch c.kind {
		case kindExtract:
			// The extract parameter is value-derived; keying on it would
			// split patterns per value length. The kind alone groups them.
			return string(kindExtract)
		default:
			return fmt.Sprintf("%s:%s", c.kind, c.value)
		}
	}
	return fmt.Sprintf("reshape:%s>%s",
		skeletonKey(skeletonOf(original)), skeletonKey(skeletonOf(corrected)))
}
