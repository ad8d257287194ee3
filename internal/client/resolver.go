package client

import (
	"net/url"
	"strings"
)

// Endpoint names one of the backend calls the viewer makes
type Endpoint string

const (
	EndpointDocument  Endpoint = "inventory_data.json"
	EndpointUpload    Endpoint = "upload"
	EndpointShelfLife Endpoint = "save_shelf_life"
)

// EndpointResolver turns an endpoint into an absolute URL
type EndpointResolver interface {
	URL(e Endpoint) string
}

// HostResolver picks the path prefix by host: loopback hosts are served by
// the local server at the root, everything else behind the API prefix. The
// document itself is always served from the root.
type HostResolver struct {
	BaseURL     string
	LocalPrefix string
	APIPrefix   string
}

func NewHostResolver(baseURL, localPrefix, apiPrefix string) *HostResolver {
	return &HostResolver{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		LocalPrefix: strings.TrimRight(localPrefix, "/"),
		APIPrefix:   strings.TrimRight(apiPrefix, "/"),
	}
}

// IsLocal reports whether BaseURL points at localhost or 127.0.0.1
func (r *HostResolver) IsLocal() bool {
	u, err := url.Parse(r.BaseURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1"
}

func (r *HostResolver) URL(e Endpoint) string {
	if e == EndpointDocument {
		return r.BaseURL + "/" + string(e)
	}
	prefix := r.APIPrefix
	if r.IsLocal() {
		prefix = r.LocalPrefix
	}
	return r.BaseURL + prefix + "/" + string(e)
}
