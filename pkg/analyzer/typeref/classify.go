package typeref

// Classification partitions the catalogued records. Aliases are never
// classified.
type Classification struct {
	// Referenced holds every record, in any file, with at least one referencing record.
	Referenced []string `json:"referenced" toon:"referenced"`
	// Unreferenced holds primary-file records nothing refers to.
	Unreferenced []string `json:"unreferenced" toon:"unreferenced"`
	// Exempt holds auxiliary-file records nothing refers to. They are
	// presumed to be consumed outside the corpus.
	Exempt []string `json:"exempt" toon:"exempt"`
}

// Classify applies the provenance rule: only records defined in primaryFile
// can be reported as unreferenced. If the primary file did not load, nothing
// is unreferenced.
func Classify(cat *Catalog, idx *Index, primaryFile string) Classification {
	c := Classification{
		Referenced:   []string{},
		Unreferenced: []string{},
		Exempt:       []string{},
	}
	for _, e := range cat.Records() {
		switch {
		case idx.IsReferenced(e.Name):
			c.Referenced = append(c.Referenced, e.Name)
		case e.File == primaryFile:
			c.Unreferenced = append(c.Unreferenced, e.Name)
		default:
			c.Exempt = append(c.Exempt, e.Name)
		}
	}
	return c
}

// IsUnreferenced reports whether name was classified as unreferenced.
func (c Classification) IsUnreferenced(name string) bool {
	for _, n := range c.Unreferenced {
		if n == name {
			return true
		}
	}
	return false
}
