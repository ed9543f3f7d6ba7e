package documentdb

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Keys of the delimited query metrics header.
const (
	MetricRetrievedDocumentCount    = "retrievedDocumentCount"
	MetricRetrievedDocumentSize     = "retrievedDocumentSize"
	MetricOutputDocumentCount       = "outputDocumentCount"
	MetricOutputDocumentSize        = "outputDocumentSize"
	MetricIndexHitRatio             = "indexUtilizationRatio"
	MetricTotalQueryExecutionTime   = "totalExecutionTimeInMs"
	MetricQueryCompileTime          = "queryCompileTimeInMs"
	MetricLogicalPlanBuildTime      = "queryLogicalPlanBuildTimeInMs"
	MetricPhysicalPlanBuildTime     = "queryPhysicalPlanBuildTimeInMs"
	MetricQueryOptimizationTime     = "queryOptimizationTimeInMs"
	MetricIndexLookupTime           = "indexLookupTimeInMs"
	MetricDocumentLoadTime          = "documentLoadTimeInMs"
	MetricVMExecutionTime           = "VMExecutionTimeInMs"
	MetricSystemFunctionExecuteTime = "systemFunctionExecuteTimeInMs"
	MetricUserFunctionExecuteTime   = "userFunctionExecuteTimeInMs"
	MetricDocumentWriteTime         = "writeOutputTimeInMs"
)

// QueryMetrics are the per-page execution metrics the backend reports for a query.
type QueryMetrics struct {
	RetrievedDocumentCount int64
	RetrievedDocumentSize  int64
	OutputDocumentCount    int64
	OutputDocumentSize     int64
	IndexHitRatio          float64

	TotalQueryExecutionTime time.Duration
	QueryCompilationTime    time.Duration
	LogicalPlanBuildTime    time.Duration
	PhysicalPlanBuildTime   time.Duration
	QueryOptimizationTime   time.Duration
	IndexLookupTime         time.Duration
	DocumentLoadTime        time.Duration
	VMExecutionTime         time.Duration
	SystemFunctionTime      time.Duration
	UserFunctionTime        time.Duration
	DocumentWriteTime       time.Duration
}

// ParseQueryMetrics parses the value of the query metrics header into QueryMetrics.
func ParseQueryMetrics(delimited string) (QueryMetrics, error) {
	metrics, err := ParseDelimitedMetrics(delimited)
	if err != nil {
		return QueryMetrics{}, err
	}

	return QueryMetrics{
		RetrievedDocumentCount:  int64(metrics[MetricRetrievedDocumentCount]),
		RetrievedDocumentSize:   int64(metrics[MetricRetrievedDocumentSize]),
		OutputDocumentCount:     int64(metrics[MetricOutputDocumentCount]),
		OutputDocumentSize:      int64(metrics[MetricOutputDocumentSize]),
		IndexHitRatio:           metrics[MetricIndexHitRatio],
		TotalQueryExecutionTime: DurationFromMetrics(metrics, MetricTotalQueryExecutionTime),
		QueryCompilationTime:    DurationFromMetrics(metrics, MetricQueryCompileTime),
		LogicalPlanBuildTime:    DurationFromMetrics(metrics, MetricLogicalPlanBuildTime),
		PhysicalPlanBuildTime:   DurationFromMetrics(metrics, MetricPhysicalPlanBuildTime),
		QueryOptimizationTime:   DurationFromMetrics(metrics, MetricQueryOptimizationTime),
		IndexLookupTime:         DurationFromMetrics(metrics, MetricIndexLookupTime),
		DocumentLoadTime:        DurationFromMetrics(metrics, MetricDocumentLoadTime),
		VMExecutionTime:         DurationFromMetrics(metrics, MetricVMExecutionTime),
		SystemFunctionTime:      DurationFromMetrics(metrics, MetricSystemFunctionExecuteTime),
		UserFunctionTime:        DurationFromMetrics(metrics, MetricUserFunctionExecuteTime),
		DocumentWriteTime:       DurationFromMetrics(metrics, MetricDocumentWriteTime),
	}, nil
}

// ParseDelimitedMetrics parses "key=value;key=value" into a map. Empty segments are skipped.
func ParseDelimitedMetrics(delimited string) (map[string]float64, error) {
	metrics := make(map[string]float64)

	for _, attribute := range strings.Split(delimited, ";") {
		if strings.TrimSpace(attribute) == "" {
			continue
		}

		key, value, found := strings.Cut(attribute, "=")
		if !found || key == "" || strings.Contains(value, "=") {
			return nil, errors.Join(ErrMalformedQueryMetrics, fmt.Errorf("attribute %q", attribute))
		}

		number, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, errors.Join(ErrMalformedQueryMetrics, err)
		}

		if math.IsNaN(number) || math.IsInf(number, 0) {
			return nil, errors.Join(ErrMalformedQueryMetrics, fmt.Errorf("non-finite value %q", strings.TrimSpace(value)))
		}

		metrics[strings.TrimSpace(key)] = number
	}

	return metrics, nil
}

// DurationFromMetrics reads a millisecond metric as a duration, zero if absent.
func DurationFromMetrics(metrics map[string]float64, key string) time.Duration {
	milliseconds, ok := metrics[key]
	if !ok {
		return 0
	}

	return time.Duration(milliseconds * float64(time.Millisecond))
}
