package requestctx

import (
	"net"
	"strconv"

	geoip2 "github.com/oschwald/geoip2-golang"
)

// GeoIPResolver resolves IP addresses to locations using a GeoIP2 City database.
type GeoIPResolver struct {
	db *geoip2.Reader
}

// NewGeoIPResolver opens the database at dbPath.
// Returns error if the database file cannot be opened or is corrupt.
func NewGeoIPResolver(dbPath string) (*GeoIPResolver, error) {
	db, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &GeoIPResolver{db: db}, nil
}

// Close closes the GeoIP database reader.
func (g *GeoIPResolver) Close() error {
	return g.db.Close()
}

// Resolve returns the location of ipStr. Private, invalid or unknown
// addresses yield an empty Geo.
func (g *GeoIPResolver) Resolve(ipStr string) Geo {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return Geo{}
	}

	record, err := g.db.City(ip)
	if err != nil {
		return Geo{}
	}

	geo := Geo{
		Continent: record.Continent.Code,
		Country:   record.Country.IsoCode,
		City:      record.City.Names["en"],
	}
	if len(record.Subdivisions) > 0 {
		geo.Region = record.Subdivisions[0].IsoCode
	}
	if record.Location.Latitude != 0 || record.Location.Longitude != 0 {
		geo.Latitude = strconv.FormatFloat(record.Location.Latitude, 'f', -1, 64)
		geo.Longitude = strconv.FormatFloat(record.Location.Longitude, 'f', -1, 64)
	}

	return geo
}
