package services

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humamux"
	"github.com/gorilla/mux"
	"golang.org/x/net/netutil"

	"github.com/climind/climind/capabilities"
	"github.com/climind/climind/catalog"
	"github.com/climind/climind/config"
	"github.com/climind/climind/metrics"
)

// Version numbers
var majorVersion = 0
var minorVersion = 1
var patchVersion = 0

// Version string
var version = fmt.Sprintf("%d.%d.%d", majorVersion, minorVersion, patchVersion)

// This type implements the CatalogService interface, answering queries about
// the collections in an archive and the capabilities that fetch and read them.
type catalogService struct {
	// name of the service
	Name string
	// service version identifier
	Version string
	// time which the service was started
	StartTime time.Time
	// port on which the service currently runs
	Port int
	// router for REST endpoints
	Router *mux.Router
	// API wrapper
	API huma.API
	// HTTP server.
	Server *http.Server

	archive  *catalog.Archive
	registry *capabilities.Registry
	metrics  *metrics.Metrics
}

type ServiceInfoOutput struct {
	Body ServiceInfoResponse `doc:"information about the service itself"`
}

// handler method for root
func (service *catalogService) getRoot(ctx context.Context,
	input *struct{}) (*ServiceInfoOutput, error) {

	slog.Info("Querying root endpoint...")
	return &ServiceInfoOutput{
		Body: ServiceInfoResponse{
			Name:          service.Name,
			Version:       service.Version,
			Uptime:        int(service.uptime()),
			Documentation: "/docs",
			Collections:   service.archive.Len(),
		},
	}, nil
}

type CollectionsOutput struct {
	Body []CollectionResponse `doc:"A list of summaries of the archive's collections, sorted by name"`
}

// handler method for querying all collections
func (service *catalogService) getCollections(ctx context.Context,
	input *struct{}) (*CollectionsOutput, error) {

	slog.Info("Querying collections...")
	output := &CollectionsOutput{
		Body: make([]CollectionResponse, 0, service.archive.Len()),
	}
	for _, c := range service.archive.Collections() {
		output.Body = append(output.Body, CollectionResponse{
			Name:        c.Name(),
			Version:     c.Version(),
			NumDatasets: c.Len(),
		})
	}
	return output, nil
}

type CollectionOutput struct {
	Body CollectionDetailResponse `doc:"The requested collection and its metadata document"`
}

func collectionDetail(c *catalog.Collection) CollectionDetailResponse {
	return CollectionDetailResponse{
		Name:        c.Name(),
		Version:     c.Version(),
		NumDatasets: c.Len(),
		Document:    c.Document(),
	}
}

// handler method for querying a single collection
func (service *catalogService) getCollection(ctx context.Context,
	input *struct {
		Name string `path:"name" example:"HadCRUT5" doc:"the name of a collection"`
	}) (*CollectionOutput, error) {

	slog.Info(fmt.Sprintf("Querying collection %s...", input.Name))
	c := service.archive.Collection(input.Name)
	if c == nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("Collection %s not found", input.Name))
	}
	return &CollectionOutput{
		Body: collectionDetail(c),
	}, nil
}

type SelectionOutput struct {
	Body SelectionResponse `doc:"The datasets matching the given criteria, grouped by collection"`
}

// handler method for selecting datasets by metadata
func (service *catalogService) selectDatasets(ctx context.Context,
	input *struct {
		Body SelectionRequest `doc:"metadata criteria for the selection"`
	}) (*SelectionOutput, error) {

	slog.Info(fmt.Sprintf("Selecting datasets matching %v...", input.Body.Criteria))
	if service.metrics != nil {
		service.metrics.ObserveSelection()
	}
	selected := service.archive.Select(input.Body.Criteria)
	output := &SelectionOutput{
		Body: SelectionResponse{
			Collections: make([]CollectionDetailResponse, 0, selected.Len()),
		},
	}
	for _, c := range selected.Collections() {
		output.Body.NumDatasets += c.Len()
		output.Body.Collections = append(output.Body.Collections, collectionDetail(c))
	}
	return output, nil
}

type CapabilitiesOutput struct {
	Body CapabilitiesResponse `doc:"The names of registered fetchers and readers"`
}

// handler method for listing registered capabilities
func (service *catalogService) getCapabilities(ctx context.Context,
	input *struct{}) (*CapabilitiesOutput, error) {

	slog.Info("Querying capabilities...")
	return &CapabilitiesOutput{
		Body: CapabilitiesResponse{
			Fetchers: service.registry.Names(capabilities.Fetchers),
			Readers:  service.registry.Names(capabilities.Readers),
		},
	}, nil
}

// returns the uptime for the service in seconds
func (service *catalogService) uptime() float64 {
	return time.Since(service.StartTime).Seconds()
}

// Constructs a catalog service for the given archive, whose datasets are
// fetched and read with the capabilities in the given registry. If m is
// non-nil, selections are counted and its metrics are served at /metrics.
func NewCatalogService(archive *catalog.Archive, registry *capabilities.Registry,
	m *metrics.Metrics) (CatalogService, error) {

	if archive == nil {
		return nil, fmt.Errorf("No archive was given.")
	}
	if registry == nil {
		return nil, fmt.Errorf("No capability registry was given.")
	}

	service := new(catalogService)
	service.Name = "climind"
	service.Version = version
	service.Port = -1
	service.archive = archive
	service.registry = registry
	service.metrics = m

	// set up routing
	service.Router = mux.NewRouter()
	if m != nil {
		service.Router.Handle("/metrics", m.Handler()).Methods("GET")
	}
	service.API = humamux.New(service.Router, huma.DefaultConfig(service.Name, service.Version))
	huma.Get(service.API, "/", service.getRoot)

	// API v1
	huma.Get(service.API, "/api/v1/collections", service.getCollections)
	huma.Get(service.API, "/api/v1/collections/{name}", service.getCollection)
	huma.Post(service.API, "/api/v1/select", service.selectDatasets)
	huma.Get(service.API, "/api/v1/capabilities", service.getCapabilities)

	return service, nil
}

// starts the catalog service
func (service *catalogService) Start(port int) error {
	slog.Info(fmt.Sprintf("Starting %s service on port %d...", service.Name, port))
	slog.Info(fmt.Sprintf("(Accepting up to %d connections)", config.Service.MaxConnections))

	service.StartTime = time.Now()

	// create a listener that limits the number of incoming connections
	service.Port = port
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	if err != nil {
		return err
	}
	defer listener.Close()
	listener = netutil.LimitListener(listener, config.Service.MaxConnections)

	// start the server
	service.Server = &http.Server{
		Handler: service.Router}
	err = service.Server.Serve(listener)

	// we don't report the server closing as an error
	if err != http.ErrServerClosed {
		return err
	}
	return nil
}

// gracefully shuts down the service without interrupting active connections
func (service *catalogService) Shutdown(ctx context.Context) error {
	if service.Server != nil {
		return service.Server.Shutdown(ctx)
	}
	return nil
}

// closes down the service abruptly, freeing all resources
func (service *catalogService) Close() {
	if service.Server != nil {
		service.Server.Close()
	}
}
