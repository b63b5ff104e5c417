package api

import (
	"net/url"
	"path"
	"strings"

	"github.com/Suraj182004/saaraansh/internal/gcs"
)

// SourcePolicy limits which file references the pipeline may be asked to
// fetch: https URLs on a configured upload host, or gs:// objects in the
// service bucket under the caller's own prefix.
type SourcePolicy struct {
	Bucket string
	// UploadHosts are exact host names. An entry of the form "*.example.com"
	// matches any subdomain of example.com but not example.com itself.
	UploadHosts []string
}

func (p SourcePolicy) Allows(ownerID, ref string) bool {
	u, err := url.Parse(ref)
	if err != nil || u.User != nil {
		return false
	}
	switch u.Scheme {
	case "https":
		if port := u.Port(); port != "" && port != "443" {
			return false
		}
		return p.uploadHost(u.Hostname())
	case "gs":
		object := strings.TrimLeft(u.Path, "/")
		if path.Clean(object) != object {
			return false
		}
		return p.Bucket != "" && u.Host == p.Bucket && gcs.OwnsObject(ownerID, object)
	}
	return false
}

func (p SourcePolicy) uploadHost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return false
	}
	for _, allowed := range p.UploadHosts {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if suffix, ok := strings.CutPrefix(allowed, "*"); ok {
			if strings.HasPrefix(suffix, ".") && strings.HasSuffix(host, suffix) && len(host) > len(suffix) {
				return true
			}
			continue
		}
		if host == allowed {
			return true
		}
	}
	return false
}
