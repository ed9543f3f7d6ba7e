package documentdb

import "fmt"

// resourceKeys maps each resource kind to the field a feed or query response nests its results under.
// The spellings are the backend's, including "Addresss".
var resourceKeys = map[ResourceType]string{
	ResourceTypeAttachment:          "Attachments",
	ResourceTypeConflict:            "Conflicts",
	ResourceTypeDatabase:            "Databases",
	ResourceTypeDocument:            "Documents",
	ResourceTypeDocumentCollection:  "DocumentCollections",
	ResourceTypeOffer:               "Offers",
	ResourceTypePermission:          "Permissions",
	ResourceTypeTrigger:             "Triggers",
	ResourceTypeStoredProcedure:     "StoredProcedures",
	ResourceTypeUser:                "Users",
	ResourceTypeUserDefinedFunction: "UserDefinedFunctions",
	ResourceTypeAddress:             "Addresss",
	ResourceTypePartitionKeyRange:   "PartitionKeyRanges",
}

// ResourceKey returns the JSON container key for a collection of t.
// An unregistered tag is an invalid-argument error, never a default key.
func ResourceKey(t ResourceType) (string, error) {
	key, ok := resourceKeys[t]
	if !ok {
		return "", invalidArgument(ErrUnknownResourceType, fmt.Errorf("resource type %q", t))
	}

	return key, nil
}
