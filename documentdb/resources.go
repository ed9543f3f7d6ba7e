package documentdb

import (
	"errors"
)

// ErrDecodingDocumentFailed is returned when a document cannot be decoded into the target value.
var ErrDecodingDocumentFailed = errors.New("decoding document failed")

/***** Database *****/

// Database is a named container of collections and users.
type Database struct{ ResourceProperties }

func (*Database) ResourceType() ResourceType { return ResourceTypeDatabase }

// CollectionsLink returns the link of the database's collection feed.
func (d *Database) CollectionsLink() string { return d.stringProperty("_colls") }

// UsersLink returns the link of the database's user feed.
func (d *Database) UsersLink() string { return d.stringProperty("_users") }

/***** DocumentCollection *****/

// DocumentCollection is a container of documents and server side programs.
type DocumentCollection struct{ ResourceProperties }

func (*DocumentCollection) ResourceType() ResourceType { return ResourceTypeDocumentCollection }

// PartitionKeyPaths returns the JSON paths of the collection's partition key definition.
func (c *DocumentCollection) PartitionKeyPaths() []string {
	paths, _ := AsJSONArray(c.objectProperty("partitionKey")["paths"])

	out := make([]string, 0, len(paths))
	for _, path := range paths {
		if s, ok := path.(string); ok {
			out = append(out, s)
		}
	}

	return out
}

// DocumentsLink returns the link of the collection's document feed.
func (c *DocumentCollection) DocumentsLink() string { return c.stringProperty("_docs") }

/***** Document *****/

// Document is a user defined JSON document.
//
// Typed projections are obtained with Decode, so any document-like shape uses this kind.
type Document struct{ ResourceProperties }

func (*Document) ResourceType() ResourceType { return ResourceTypeDocument }

// Decode unmarshals the document into target.
func (d *Document) Decode(target any) error {
	raw, err := jsonAPI.Marshal(d.object)
	if err != nil {
		return errors.Join(ErrDecodingDocumentFailed, err)
	}

	if err := jsonAPI.Unmarshal(raw, target); err != nil {
		return errors.Join(ErrDecodingDocumentFailed, err)
	}

	return nil
}

// Aggregate returns the text of a scalar aggregate result and whether the document is one.
func (d *Document) Aggregate() (string, bool) {
	value, ok := d.object[PropertyAggregate].(string)
	return value, ok
}

// AttachmentsLink returns the link of the document's attachment feed.
func (d *Document) AttachmentsLink() string { return d.stringProperty("_attachments") }

/***** Attachment *****/

// Attachment references media associated with a document.
type Attachment struct{ ResourceProperties }

func (*Attachment) ResourceType() ResourceType { return ResourceTypeAttachment }

// MediaLink returns the location of the attachment's media.
func (a *Attachment) MediaLink() string { return a.stringProperty("media") }

// ContentType returns the MIME type of the attachment's media.
func (a *Attachment) ContentType() string { return a.stringProperty("contentType") }

/***** Conflict *****/

// Conflict records a write that lost a multi-region conflict resolution.
type Conflict struct{ ResourceProperties }

func (*Conflict) ResourceType() ResourceType { return ResourceTypeConflict }

// SourceResourceID returns the resource id of the conflicting resource.
func (c *Conflict) SourceResourceID() string { return c.stringProperty("resourceId") }

// OperationKind returns the operation that caused the conflict.
func (c *Conflict) OperationKind() string { return c.stringProperty("operationType") }

/***** Offer *****/

// Offer holds the provisioned throughput of a collection or database.
type Offer struct{ ResourceProperties }

func (*Offer) ResourceType() ResourceType { return ResourceTypeOffer }

// Throughput returns the provisioned throughput, or 0 if the offer has none.
func (o *Offer) Throughput() int {
	value, ok := numberProperty(o.objectProperty("content")["offerThroughput"])
	if !ok {
		return 0
	}

	return int(value)
}

// OfferResourceID returns the resource id of the resource the offer applies to.
func (o *Offer) OfferResourceID() string { return o.stringProperty("offerResourceId") }

/***** Permission *****/

// Permission grants a user access to a resource.
type Permission struct{ ResourceProperties }

func (*Permission) ResourceType() ResourceType { return ResourceTypePermission }

// Token returns the resource token of the permission.
func (p *Permission) Token() string { return p.stringProperty("_token") }

// ResourceLink returns the link of the resource the permission applies to.
func (p *Permission) ResourceLink() string { return p.stringProperty("resource") }

// Mode returns the permission mode, e.g. "Read" or "All".
func (p *Permission) Mode() string { return p.stringProperty("permissionMode") }

/***** Trigger *****/

// Trigger is a server side program run before or after an operation.
type Trigger struct{ ResourceProperties }

func (*Trigger) ResourceType() ResourceType { return ResourceTypeTrigger }

// Body returns the trigger's program text.
func (t *Trigger) Body() string { return t.stringProperty("body") }

// Operation returns the operation the trigger fires on.
func (t *Trigger) Operation() string { return t.stringProperty("triggerOperation") }

// Kind returns "Pre" or "Post".
func (t *Trigger) Kind() string { return t.stringProperty("triggerType") }

/***** StoredProcedure *****/

// StoredProcedure is a server side program executed on demand.
type StoredProcedure struct{ ResourceProperties }

func (*StoredProcedure) ResourceType() ResourceType { return ResourceTypeStoredProcedure }

// Body returns the stored procedure's program text.
func (s *StoredProcedure) Body() string { return s.stringProperty("body") }

/***** User *****/

// User is a principal owning permissions in a database.
type User struct{ ResourceProperties }

func (*User) ResourceType() ResourceType { return ResourceTypeUser }

// PermissionsLink returns the link of the user's permission feed.
func (u *User) PermissionsLink() string { return u.stringProperty("_permissions") }

/***** UserDefinedFunction *****/

// UserDefinedFunction is a server side function callable from queries.
type UserDefinedFunction struct{ ResourceProperties }

func (*UserDefinedFunction) ResourceType() ResourceType { return ResourceTypeUserDefinedFunction }

// Body returns the function's program text.
func (u *UserDefinedFunction) Body() string { return u.stringProperty("body") }

/***** Address *****/

// Address describes a physical replica endpoint serving a partition.
type Address struct{ ResourceProperties }

func (*Address) ResourceType() ResourceType { return ResourceTypeAddress }

// PhysicalURI returns the replica endpoint. The backend spells the property "physcialUri".
func (a *Address) PhysicalURI() string { return a.stringProperty("physcialUri") }

// IsPrimary reports whether the replica is the partition's primary.
func (a *Address) IsPrimary() bool {
	primary, _ := a.object["isPrimary"].(bool)
	return primary
}

// PartitionKeyRangeID returns the id of the partition key range the replica serves.
func (a *Address) PartitionKeyRangeID() string { return a.stringProperty("partitionKeyRangeId") }

/***** PartitionKeyRange *****/

// PartitionKeyRange is a contiguous range of effective partition keys served by one partition.
type PartitionKeyRange struct{ ResourceProperties }

func (*PartitionKeyRange) ResourceType() ResourceType { return ResourceTypePartitionKeyRange }

// MinInclusive returns the inclusive lower bound of the range.
func (r *PartitionKeyRange) MinInclusive() string { return r.stringProperty("minInclusive") }

// MaxExclusive returns the exclusive upper bound of the range.
func (r *PartitionKeyRange) MaxExclusive() string { return r.stringProperty("maxExclusive") }

// Parents returns the ids of the ranges this one was split from.
func (r *PartitionKeyRange) Parents() []string {
	parents, _ := AsJSONArray(r.object["parents"])

	out := make([]string, 0, len(parents))
	for _, parent := range parents {
		if s, ok := parent.(string); ok {
			out = append(out, s)
		}
	}

	return out
}
