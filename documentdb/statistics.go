package documentdb

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// ClientSideRequestStatistics describes how the client executed the exchange that produced a response.
// It is attached to a WireResponse once and read many times afterward.
type ClientSideRequestStatistics struct {
	ActivityID        uuid.UUID
	RequestStartTime  time.Time
	RequestEndTime    time.Time
	ContactedReplicas []string
	FailedReplicas    []string
	RegionsContacted  []string
}

// NewClientSideRequestStatistics starts statistics for a request issued at startTime with a fresh activity id.
func NewClientSideRequestStatistics(startTime time.Time) *ClientSideRequestStatistics {
	return &ClientSideRequestStatistics{
		ActivityID:       uuid.New(),
		RequestStartTime: startTime,
	}
}

// RecordReplica adds a contacted replica address, and marks it failed if failed is true.
func (s *ClientSideRequestStatistics) RecordReplica(address string, failed bool) {
	if !slices.Contains(s.ContactedReplicas, address) {
		s.ContactedReplicas = append(s.ContactedReplicas, address)
	}

	if failed && !slices.Contains(s.FailedReplicas, address) {
		s.FailedReplicas = append(s.FailedReplicas, address)
	}
}

// RecordRegion adds a contacted region once.
func (s *ClientSideRequestStatistics) RecordRegion(region string) {
	if !slices.Contains(s.RegionsContacted, region) {
		s.RegionsContacted = append(s.RegionsContacted, region)
	}
}

// Finish sets the end time of the request.
func (s *ClientSideRequestStatistics) Finish(endTime time.Time) {
	s.RequestEndTime = endTime
}

// Latency is the time between start and end, or zero while the request is unfinished.
func (s *ClientSideRequestStatistics) Latency() time.Duration {
	if s.RequestEndTime.IsZero() || s.RequestEndTime.Before(s.RequestStartTime) {
		return 0
	}

	return s.RequestEndTime.Sub(s.RequestStartTime)
}
