// Command reservation-import books every reservation listed in a YAML file
// through the HTTP API.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hirasawaau/hotel-reservation/internal/config"
	"github.com/hirasawaau/hotel-reservation/internal/reservation"
	"gopkg.in/yaml.v3"
)

func main() {
	_ = config.LoadDotenv()

	path := flag.String("file", "reservations.yml", "YAML file with the reservations to book")
	api := flag.String("api", envOr("API_BASE", "http://localhost:8080"), "base URL of the reservation API")
	flag.Parse()

	items, err := loadReservations(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", *path, err)
		os.Exit(1)
	}
	if len(items) == 0 {
		fmt.Println("No reservations to import.")
		return
	}

	cli := &http.Client{Timeout: 15 * time.Second}
	base := strings.TrimRight(*api, "/")

	var anyFailed bool
	for _, r := range items {
		if err := r.Validate(); err != nil {
			anyFailed = true
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", r, err)
			continue
		}
		if err := postReservation(cli, base, r); err != nil {
			anyFailed = true
			fmt.Fprintf(os.Stderr, "Failed to book %s: %v\n", r, err)
		} else {
			fmt.Printf("Booked %s\n", r)
		}
	}

	if anyFailed {
		os.Exit(2)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func postReservation(cli *http.Client, base string, r reservation.Reservation) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	resp, err := cli.Post(base+"/reservation", "application/json", bytes.NewReader(b))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func loadReservations(path string) ([]reservation.Reservation, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseReservations(b)
}

// parseReservations accepts a list or {reservations: [...]}.
func parseReservations(b []byte) ([]reservation.Reservation, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]

	var out []reservation.Reservation
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&out); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var wrapped struct {
			Reservations []reservation.Reservation `yaml:"reservations"`
		}
		if err := root.Decode(&wrapped); err != nil {
			return nil, err
		}
		out = wrapped.Reservations
	default:
		return nil, errors.New("expected a list or a mapping with a reservations key")
	}
	return out, nil
}
