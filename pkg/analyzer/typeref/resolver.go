package typeref

import (
	"context"

	"github.com/panbanda/modeldeps/pkg/parser"
)

// DependenciesOf returns the sorted catalog members referenced by the fields
// of recordName, as declared in fileText. A record that is not declared in
// fileText has no dependencies.
func DependenciesOf(recordName string, fileText []byte, cat *Catalog) ([]string, error) {
	p := parser.New()
	defer p.Close()

	fd, err := ParseDecls(context.Background(), p, "", fileText, nil)
	if err != nil {
		return nil, err
	}
	rec := fd.Record(recordName)
	if rec == nil {
		return []string{}, nil
	}
	return rec.dependencies(cat), nil
}

// InternalDependencies restricts deps to the types declared in file.
func InternalDependencies(deps []string, file string, cat *Catalog) []string {
	internal := []string{}
	for _, d := range deps {
		if e, ok := cat.Lookup(d); ok && e.File == file {
			internal = append(internal, d)
		}
	}
	return internal
}
