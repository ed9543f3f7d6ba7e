package documentdb

import "strings"

// pathSegments are the name based path segments of the publicly addressable resource kinds.
var pathSegments = map[ResourceType]string{
	ResourceTypeDatabase:            "dbs",
	ResourceTypeDocumentCollection:  "colls",
	ResourceTypeDocument:            "docs",
	ResourceTypeAttachment:          "attachments",
	ResourceTypeUser:                "users",
	ResourceTypePermission:          "permissions",
	ResourceTypeTrigger:             "triggers",
	ResourceTypeStoredProcedure:     "sprocs",
	ResourceTypeUserDefinedFunction: "udfs",
	ResourceTypeConflict:            "conflicts",
	ResourceTypeOffer:               "offers",
}

// IsPublicResource reports whether resources of kind t are addressable by name.
func IsPublicResource(t ResourceType) bool {
	_, ok := pathSegments[t]
	return ok
}

// PathSegment returns the name based path segment of t.
func PathSegment(t ResourceType) (string, bool) {
	segment, ok := pathSegments[t]
	return segment, ok
}

// AltLinkFor computes the name based link of a resource with the given id.
//
// Databases are top level and need no owner: dbs/<id>.
// Every other public kind is nested under its owner: <owner>/<segment>/<id>.
// It reports false when the kind is not public, the id is empty, or a required owner is missing.
func AltLinkFor(t ResourceType, ownerFullName string, id string) (string, bool) {
	segment, ok := pathSegments[t]
	if !ok || id == "" {
		return "", false
	}

	if t == ResourceTypeDatabase {
		return segment + "/" + id, true
	}

	owner := strings.Trim(ownerFullName, "/")
	if owner == "" {
		return "", false
	}

	return owner + "/" + segment + "/" + id, true
}
