package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-client-go/internal/mockhris"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "listen address")
		secret     = flag.String("secret", "", "JWT signing secret")
		accessTTL  = flag.Duration("access-ttl", time.Hour, "access token lifetime")
		lat        = flag.Float64("geofence-lat", 0, "office latitude")
		lng        = flag.Float64("geofence-lng", 0, "office longitude")
		radius     = flag.Float64("geofence-radius", 0, "geofence radius in meters, 0 disables")
		openSignup = flag.Bool("open-signup", false, "skip admin approval on register")
	)
	flag.Parse()

	server := mockhris.New(mockhris.Options{
		Secret:         *secret,
		AccessTTL:      *accessTTL,
		GeofenceLat:    *lat,
		GeofenceLng:    *lng,
		GeofenceRadius: *radius,
		OpenSignup:     *openSignup,
	})

	fmt.Printf("mockhris listening on %s\n", *addr)
	fmt.Println("seeded accounts: admin@example.com/admin12345, employee@example.com/employee12345")
	if err := http.ListenAndServe(*addr, server); err != nil {
		fmt.Println("server error:", err)
	}
}
