package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeAnalyzeTypes() string {
	return `Finds struct types in the primary model file that no other struct references.

USE WHEN:
- Pruning structs copied from an upstream model package
- Checking whether a struct can be deleted before editing the models
- Reviewing which types the auxiliary (external API) files depend on

INTERPRETING RESULTS:
- unreferenced: primary-file structs no struct field in any loaded file refers to
- referenced: structs with at least one referencing struct, in any file
- exempt: auxiliary-file structs nothing references; they are API contracts and never reported as unused
- A field refers to T only as T, []T, *T, *[]T or []*T; maps, arrays, generics,
  embedded fields and pkg.T are ignored, so a struct used only that way shows as unreferenced
- skipped: designated files that could not be read

METRICS RETURNED:
- files: per-file struct and alias names, line count, BLAKE3 digest
- types: kind, location, dependencies, internal dependencies, referencing types, status
- edges and cycles of the struct dependency graph
- summary: counts of records, aliases, referenced/unreferenced primary structs, edges`
}

func describeTypeReferences() string {
	return `Shows what one model type depends on and which structs refer to it.

USE WHEN:
- Deciding whether a struct is safe to delete or rename
- Tracing why a struct is reported as referenced
- Looking up where a type is declared

INTERPRETING RESULTS:
- name accepts an exact name, a glob such as "*Info", or a case-insensitive name
- An ambiguous pattern returns the matching candidates instead of a detail
- referenced_by lists each referencing struct with the file that declares it
- fields lists the fields of the struct that refer to other catalogued types and their shape

METRICS RETURNED:
- kind, file, line, status
- dependencies and internal_dependencies (same-file subset)
- fields with field name, type, shape, line
- referenced_by`
}
