package documentdb

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"time"
)

// ResourceType is the tag selecting a resource kind, its factory and its JSON container key.
type ResourceType string

// The closed set of resource kinds.
const (
	ResourceTypeAttachment          ResourceType = "Attachment"
	ResourceTypeConflict            ResourceType = "Conflict"
	ResourceTypeDatabase            ResourceType = "Database"
	ResourceTypeDocument            ResourceType = "Document"
	ResourceTypeDocumentCollection  ResourceType = "DocumentCollection"
	ResourceTypeOffer               ResourceType = "Offer"
	ResourceTypePermission          ResourceType = "Permission"
	ResourceTypeTrigger             ResourceType = "Trigger"
	ResourceTypeStoredProcedure     ResourceType = "StoredProcedure"
	ResourceTypeUser                ResourceType = "User"
	ResourceTypeUserDefinedFunction ResourceType = "UserDefinedFunction"
	ResourceTypeAddress             ResourceType = "Address"
	ResourceTypePartitionKeyRange   ResourceType = "PartitionKeyRange"
)

// System property names shared by every resource.
const (
	PropertyID         = "id"
	PropertyResourceID = "_rid"
	PropertySelfLink   = "_self"
	PropertyETag       = "_etag"
	PropertyTimestamp  = "_ts"

	// PropertyAggregate holds the text of a scalar aggregate query result.
	PropertyAggregate = "aggregate"
)

// Resource is a typed domain object materialized from a response body.
//
// The set of implementations is closed: one per ResourceType, built only through
// NewResourceFromObject or NewResourceFromString.
type Resource interface {
	ResourceType() ResourceType
	ID() string
	ResourceID() string
	SelfLink() string
	ETag() string
	Timestamp() time.Time
	AltLink() string
	Get(key string) (any, bool)
	Properties() JSONObject
	MarshalJSON() ([]byte, error)

	base() *ResourceProperties
}

// ResourceProperties is the JSON object behind every resource plus the alternate link computed for it.
type ResourceProperties struct {
	object  JSONObject
	altLink string
}

// ID returns the user supplied id.
func (p *ResourceProperties) ID() string {
	return p.stringProperty(PropertyID)
}

// ResourceID returns the system generated resource id.
func (p *ResourceProperties) ResourceID() string {
	return p.stringProperty(PropertyResourceID)
}

// SelfLink returns the resource id based link.
func (p *ResourceProperties) SelfLink() string {
	return p.stringProperty(PropertySelfLink)
}

// ETag returns the entity tag used for optimistic concurrency.
func (p *ResourceProperties) ETag() string {
	return p.stringProperty(PropertyETag)
}

// Timestamp returns the last modification time, or the zero time if the resource has none.
func (p *ResourceProperties) Timestamp() time.Time {
	seconds, ok := numberProperty(p.object[PropertyTimestamp])
	if !ok {
		return time.Time{}
	}

	whole, fraction := math.Modf(seconds)

	return time.Unix(int64(whole), int64(fraction*1e9)).UTC()
}

// AltLink returns the name based link, or "" if none could be computed.
func (p *ResourceProperties) AltLink() string {
	return p.altLink
}

// Get returns the raw value of a top level property.
func (p *ResourceProperties) Get(key string) (any, bool) {
	value, ok := p.object[key]
	return value, ok
}

// Properties returns a shallow copy of the underlying JSON object.
func (p *ResourceProperties) Properties() JSONObject {
	return maps.Clone(p.object)
}

// MarshalJSON returns the JSON text of the underlying object.
func (p *ResourceProperties) MarshalJSON() ([]byte, error) {
	return jsonAPI.Marshal(p.object)
}

func (p *ResourceProperties) base() *ResourceProperties {
	return p
}

func (p *ResourceProperties) stringProperty(key string) string {
	value, _ := p.object[key].(string)
	return value
}

func (p *ResourceProperties) objectProperty(key string) JSONObject {
	value, _ := p.object[key].(JSONObject)
	return value
}

// numberProperty converts the numeric representations a structured body may carry to float64.
func numberProperty(v any) (float64, bool) {
	switch typed := v.(type) {
	case json.Number:
		f, err := typed.Float64()
		return f, err == nil
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case uint32:
		return float64(typed), true
	default:
		return 0, false
	}
}

// ResourceOption configures the construction of a resource.
type ResourceOption func(*resourceConfig)

type resourceConfig struct {
	ownerFullName string
}

// WithOwnerFullName supplies the name based path of the resource's owner, used to compute its alternate link.
func WithOwnerFullName(ownerFullName string) ResourceOption {
	return func(c *resourceConfig) {
		c.ownerFullName = ownerFullName
	}
}

// ResourceFactory builds the resource of one kind around validated properties.
type ResourceFactory func(properties ResourceProperties) Resource

// resourceFactories is the closed factory table, one entry per ResourceType.
// Its key set must equal the key set of resourceKeys.
var resourceFactories = map[ResourceType]ResourceFactory{
	ResourceTypeAttachment:          func(p ResourceProperties) Resource { return &Attachment{ResourceProperties: p} },
	ResourceTypeConflict:            func(p ResourceProperties) Resource { return &Conflict{ResourceProperties: p} },
	ResourceTypeDatabase:            func(p ResourceProperties) Resource { return &Database{ResourceProperties: p} },
	ResourceTypeDocument:            func(p ResourceProperties) Resource { return &Document{ResourceProperties: p} },
	ResourceTypeDocumentCollection:  func(p ResourceProperties) Resource { return &DocumentCollection{ResourceProperties: p} },
	ResourceTypeOffer:               func(p ResourceProperties) Resource { return &Offer{ResourceProperties: p} },
	ResourceTypePermission:          func(p ResourceProperties) Resource { return &Permission{ResourceProperties: p} },
	ResourceTypeTrigger:             func(p ResourceProperties) Resource { return &Trigger{ResourceProperties: p} },
	ResourceTypeStoredProcedure:     func(p ResourceProperties) Resource { return &StoredProcedure{ResourceProperties: p} },
	ResourceTypeUser:                func(p ResourceProperties) Resource { return &User{ResourceProperties: p} },
	ResourceTypeUserDefinedFunction: func(p ResourceProperties) Resource { return &UserDefinedFunction{ResourceProperties: p} },
	ResourceTypeAddress:             func(p ResourceProperties) Resource { return &Address{ResourceProperties: p} },
	ResourceTypePartitionKeyRange:   func(p ResourceProperties) Resource { return &PartitionKeyRange{ResourceProperties: p} },
}

// NewResourceFromObject builds a resource of kind t from a JSON object.
//
// Returns ErrUnknownResourceType for a tag outside the closed set and ErrResourceShapeMismatch
// if a system property has the wrong JSON kind.
func NewResourceFromObject(t ResourceType, object JSONObject, options ...ResourceOption) (Resource, error) {
	factory, ok := resourceFactories[t]
	if !ok {
		return nil, invalidArgument(ErrUnknownResourceType, fmt.Errorf("resource type %q", t))
	}

	if object == nil {
		return nil, illegalState(ErrResourceShapeMismatch, fmt.Errorf("%s: nil object", t))
	}

	if err := validateSystemProperties(object); err != nil {
		return nil, illegalState(ErrResourceShapeMismatch, fmt.Errorf("%s: %w", t, err))
	}

	config := resourceConfig{}
	for _, option := range options {
		option(&config)
	}

	resource := factory(ResourceProperties{object: object})

	if IsPublicResource(t) {
		if altLink, ok := AltLinkFor(t, config.ownerFullName, resource.ID()); ok {
			resource.base().altLink = altLink
		}
	}

	return resource, nil
}

// NewResourceFromString parses raw JSON text and builds a resource of kind t from it.
func NewResourceFromString(t ResourceType, raw string, options ...ResourceOption) (Resource, error) {
	if _, ok := resourceFactories[t]; !ok {
		return nil, invalidArgument(ErrUnknownResourceType, fmt.Errorf("resource type %q", t))
	}

	object, err := ParseJSONObject(raw)
	if err != nil {
		return nil, err
	}

	return NewResourceFromObject(t, object, options...)
}

// ResourceTypes returns every tag that has a factory.
func ResourceTypes() []ResourceType {
	types := make([]ResourceType, 0, len(resourceFactories))
	for t := range resourceFactories {
		types = append(types, t)
	}

	return types
}

func validateSystemProperties(object JSONObject) error {
	for _, key := range []string{PropertyID, PropertyResourceID, PropertySelfLink, PropertyETag} {
		value, ok := object[key]
		if !ok || value == nil {
			continue
		}

		if _, isString := value.(string); !isString {
			return fmt.Errorf("property %q must be a string, got %s", key, kindOf(value))
		}
	}

	if value, ok := object[PropertyTimestamp]; ok && value != nil {
		if _, isNumber := numberProperty(value); !isNumber {
			return fmt.Errorf("property %q must be a number, got %s", PropertyTimestamp, kindOf(value))
		}
	}

	return nil
}
