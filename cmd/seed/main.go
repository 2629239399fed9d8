package main

import (
	"flag"
	"os"

	"github.com/hackgods/healthcare-appointment-registry/internal/logging"
	"github.com/hackgods/healthcare-appointment-registry/internal/seed"
)

// seed writes a doctor directory file that api-server loads via
// DIRECTORY_FILE.
func main() {
	out := flag.String("out", "doctors.json", "output file")
	count := flag.Int("fake", 50, "number of generated doctors to append")
	seedValue := flag.Uint64("seed", 0, "generator seed, 0 for random")
	withSamples := flag.Bool("samples", true, "start from the built-in sample doctors")
	flag.Parse()

	log := logging.New("seed", "console", "info")
	log.Info().Str("out", *out).Int("fake", *count).Msg("seed starting")

	if *count < 0 {
		log.Fatal().Int("fake", *count).Msg("fake count must be >= 0")
	}

	doctors := seed.SampleDoctors()
	firstID := len(doctors) + 1
	if !*withSamples {
		doctors = nil
		firstID = 1
	}
	doctors = append(doctors, seed.FakeDoctors(*count, firstID, *seedValue)...)

	if err := seed.WriteFile(*out, doctors); err != nil {
		log.Error().Err(err).Msg("write directory")
		os.Exit(1)
	}

	log.Info().Int("doctors", len(doctors)).Msg("seed complete")
}
