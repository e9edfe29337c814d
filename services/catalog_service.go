package services

import (
	"context"

	"github.com/climind/climind/metadata"
)

// this type encodes a JSON object for responding to root queries
type ServiceInfoResponse struct {
	Name          string `json:"name" example:"climind" doc:"The name of the service API"`
	Version       string `json:"version" example:"1.0.0" doc:"The version string (major.minor.patch)"`
	Uptime        int    `json:"uptime" example:"345600" doc:"The time the service has been up (seconds)"`
	Documentation string `json:"documentation" example:"/docs" doc:"The OpenAPI documentation endpoint"`
	Collections   int    `json:"collections" example:"12" doc:"The number of collections in the archive"`
}

// a summary of a collection (GET)
type CollectionResponse struct {
	Name        string `json:"name" example:"HadCRUT5" doc:"the name of the collection"`
	Version     string `json:"version" example:"5.0.2.0" doc:"the version of the collection"`
	NumDatasets int    `json:"num_datasets" example:"2" doc:"the number of datasets in the collection"`
}

// a collection together with its metadata document (GET)
type CollectionDetailResponse struct {
	Name        string          `json:"name" example:"HadCRUT5" doc:"the name of the collection"`
	Version     string          `json:"version" example:"5.0.2.0" doc:"the version of the collection"`
	NumDatasets int             `json:"num_datasets" example:"2" doc:"the number of datasets in the collection"`
	Document    metadata.Record `json:"document" doc:"the collection's metadata document (global attributes plus datasets)"`
}

// a request for the datasets matching a set of metadata criteria (POST)
type SelectionRequest struct {
	Criteria metadata.Record `json:"criteria,omitempty" doc:"metadata criteria; a list value matches any of its elements"`
}

// a response for a selection request (POST)
type SelectionResponse struct {
	NumDatasets int                        `json:"num_datasets" doc:"the total number of matching datasets"`
	Collections []CollectionDetailResponse `json:"collections" doc:"the collections holding matching datasets, reduced to those datasets"`
}

// a response listing the registered capabilities (GET)
type CapabilitiesResponse struct {
	Fetchers []string `json:"fetchers" example:"[\"local_copy\", \"standard_url\"]" doc:"names of registered fetchers"`
	Readers  []string `json:"readers" example:"[\"csv_timeseries\", \"netcdf_grid\"]" doc:"names of registered readers"`
}

// CatalogService defines the interface for our catalog query service.
type CatalogService interface {
	// Starts the service on the selected port, returning an error that indicates
	// success or failure.
	Start(port int) error
	// Gracefully shuts down the service without interrupting active connections.
	Shutdown(ctx context.Context) error
	// Closes down the service, freeing all resources.
	Close()
}
