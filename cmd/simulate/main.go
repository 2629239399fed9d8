package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"

	"github.com/hackgods/healthcare-appointment-registry/internal/appointment"
	"github.com/hackgods/healthcare-appointment-registry/internal/config"
	"github.com/hackgods/healthcare-appointment-registry/internal/logging"
)

type SimConfig struct {
	APIBaseURL      string
	Duration        time.Duration
	Workers         int
	BookingRatio    float64
	RescheduleRatio float64
	CancelRatio     float64
	ReadRatio       float64
	Patients        int
	Days            int
	Location        string
}

var hours = []string{"9:00 AM", "10:00 AM", "11:00 AM", "1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM"}

type DataPool struct {
	Patients     []string
	Doctors      []int
	Dates        []string
	mu           sync.RWMutex
	appointments []int
}

func (dp *DataPool) AddAppointment(id int) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, id)
}

func (dp *DataPool) RemoveAppointment(id int) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	for i, v := range dp.appointments {
		if v == id {
			dp.appointments = append(dp.appointments[:i], dp.appointments[i+1:]...)
			return
		}
	}
}

func (dp *DataPool) GetRandomAppointment(rng *rand.Rand) (int, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return 0, false
	}
	return dp.appointments[rng.Intn(len(dp.appointments))], true
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success bool, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	if success {
		atomic.AddInt64(&om.Success, 1)
	} else if conflict {
		atomic.AddInt64(&om.Conflict, 1)
	} else {
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, p50, p95, max time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	n := len(latencies)
	return sum / time.Duration(n), latencies[n*50/100], latencies[min(n*95/100, n-1)], latencies[n-1]
}

type Metrics struct {
	Booking    OperationMetrics
	Reschedule OperationMetrics
	Cancel     OperationMetrics
	Read       OperationMetrics
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	metrics Metrics
	log     zerolog.Logger
}

func main() {
	log := logging.New("simulate", config.String("LOG_FORMAT", "console"), "info")

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	log.Info().
		Dur("duration", cfg.Duration).
		Int("workers", cfg.Workers).
		Float64("booking", cfg.BookingRatio).
		Float64("reschedule", cfg.RescheduleRatio).
		Float64("cancel", cfg.CancelRatio).
		Float64("read", cfg.ReadRatio).
		Msg("simulator starting")

	sim := &Simulator{
		config: cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := sim.loadDataPool(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load data pool")
	}
	sim.pool = pool
	log.Info().Int("doctors", len(pool.Doctors)).Int("patients", len(pool.Patients)).Msg("data pool loaded")

	sim.Run()
	sim.PrintReport()

	violations, err := sim.VerifySlots(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("slot verification failed")
	}
	if violations > 0 {
		log.Error().Int("violations", violations).Msg("double-booked slots found")
		os.Exit(1)
	}
	log.Info().Msg("no double-booked slots")
}

func loadConfig() SimConfig {
	cfg := SimConfig{
		APIBaseURL:      config.String("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:        config.Duration("SIM_DURATION", 30*time.Second),
		Workers:         config.Int("SIM_WORKERS", 10),
		BookingRatio:    config.Float("SIM_BOOKING_RATIO", 0.4),
		RescheduleRatio: config.Float("SIM_RESCHEDULE_RATIO", 0.15),
		CancelRatio:     config.Float("SIM_CANCEL_RATIO", 0.1),
		ReadRatio:       config.Float("SIM_READ_RATIO", 0.35),
		Patients:        config.Int("SIM_PATIENTS", 500),
		Days:            config.Int("SIM_DAYS", 5),
		Location:        config.String("VIDEO_ELIGIBLE_LOCATION", config.DefaultVideoEligibleLocation),
	}

	total := cfg.BookingRatio + cfg.RescheduleRatio + cfg.CancelRatio + cfg.ReadRatio
	if total > 0 {
		cfg.BookingRatio /= total
		cfg.RescheduleRatio /= total
		cfg.CancelRatio /= total
		cfg.ReadRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	if cfg.Patients <= 0 || cfg.Days <= 0 {
		return fmt.Errorf("SIM_PATIENTS and SIM_DAYS must be > 0")
	}
	return nil
}

func (s *Simulator) loadDataPool(ctx context.Context) (*DataPool, error) {
	var doctors struct {
		Doctors []appointment.Doctor `json:"doctors"`
	}
	if err := s.getJSON(ctx, "/doctors", &doctors); err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	if len(doctors.Doctors) == 0 {
		return nil, fmt.Errorf("no doctors loaded")
	}

	pool := &DataPool{}
	for _, d := range doctors.Doctors {
		pool.Doctors = append(pool.Doctors, d.ID)
	}

	faker := gofakeit.New(0)
	for i := 0; i < s.config.Patients; i++ {
		pool.Patients = append(pool.Patients, faker.Name())
	}

	start := time.Now().AddDate(0, 0, 1)
	for i := 0; i < s.config.Days; i++ {
		pool.Dates = append(pool.Dates, start.AddDate(0, 0, i).Format("2006-01-02"))
	}

	return pool, nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	s.log.Info().Msg("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			r := rng.Float64()
			switch {
			case r < s.config.BookingRatio:
				s.doBooking(ctx, rng)
			case r < s.config.BookingRatio+s.config.RescheduleRatio:
				s.doReschedule(ctx, rng)
			case r < s.config.BookingRatio+s.config.RescheduleRatio+s.config.CancelRatio:
				s.doCancel(ctx, rng)
			default:
				s.doRead(ctx, rng)
			}
		}
	}
}

func (s *Simulator) randomSlot(rng *rand.Rand) (doctorID int, date, hour string) {
	return s.pool.Doctors[rng.Intn(len(s.pool.Doctors))],
		s.pool.Dates[rng.Intn(len(s.pool.Dates))],
		hours[rng.Intn(len(hours))]
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand) {
	doctorID, date, hour := s.randomSlot(rng)
	isNew := rng.Intn(2) == 0

	body, _ := json.Marshal(map[string]any{
		"patientName":  s.pool.Patients[rng.Intn(len(s.pool.Patients))],
		"doctorId":     doctorID,
		"date":         date,
		"time":         hour,
		"isNewPatient": isNew,
		"location":     s.config.Location,
	})

	start := time.Now()
	status, resp, err := s.send(ctx, http.MethodPost, "/appointments", body)
	latency := time.Since(start)

	if err == nil && status == http.StatusCreated {
		var out struct {
			Appointment appointment.Appointment `json:"appointment"`
		}
		if json.Unmarshal(resp, &out) == nil && out.Appointment.ID > 0 {
			s.pool.AddAppointment(out.Appointment.ID)
		}
	}
	s.metrics.Booking.Record(latency, err == nil && status == http.StatusCreated, status == http.StatusConflict)
}

func (s *Simulator) doReschedule(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.GetRandomAppointment(rng)
	if !ok {
		return
	}
	_, date, hour := s.randomSlot(rng)
	body, _ := json.Marshal(map[string]string{"date": date, "time": hour})

	start := time.Now()
	status, _, err := s.send(ctx, http.MethodPost, fmt.Sprintf("/appointments/%d/reschedule", id), body)
	s.metrics.Reschedule.Record(time.Since(start), err == nil && status == http.StatusOK, status == http.StatusConflict)
}

func (s *Simulator) doCancel(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.GetRandomAppointment(rng)
	if !ok {
		return
	}

	start := time.Now()
	status, _, err := s.send(ctx, http.MethodDelete, fmt.Sprintf("/appointments/%d", id), nil)
	latency := time.Since(start)

	if err == nil && (status == http.StatusOK || status == http.StatusNotFound) {
		s.pool.RemoveAppointment(id)
	}
	s.metrics.Cancel.Record(latency, err == nil && status == http.StatusOK, false)
}

func (s *Simulator) doRead(ctx context.Context, rng *rand.Rand) {
	var path string
	switch rng.Intn(3) {
	case 0:
		path = "/appointments?patient=" + url.QueryEscape(s.pool.Patients[rng.Intn(len(s.pool.Patients))])
	case 1:
		path = fmt.Sprintf("/doctors/%d/appointments", s.pool.Doctors[rng.Intn(len(s.pool.Doctors))])
	default:
		doctorID, date, hour := s.randomSlot(rng)
		path = fmt.Sprintf("/doctors/%d/availability?date=%s&time=%s", doctorID, url.QueryEscape(date), url.QueryEscape(hour))
	}

	start := time.Now()
	status, _, err := s.send(ctx, http.MethodGet, path, nil)
	s.metrics.Read.Record(time.Since(start), err == nil && status == http.StatusOK, false)
}

// VerifySlots checks every doctor's appointment list for two live
// appointments sharing a date and time.
func (s *Simulator) VerifySlots(ctx context.Context) (int, error) {
	violations := 0
	for _, doctorID := range s.pool.Doctors {
		var out struct {
			Appointments []appointment.Appointment `json:"appointments"`
		}
		if err := s.getJSON(ctx, fmt.Sprintf("/doctors/%d/appointments", doctorID), &out); err != nil {
			return 0, err
		}

		seen := make(map[string]int)
		for _, a := range out.Appointments {
			key := a.Date + " " + a.Time
			if other, ok := seen[key]; ok {
				violations++
				s.log.Error().Int("doctor_id", doctorID).Str("slot", key).
					Int("appointment_id", a.ID).Int("conflicts_with", other).
					Msg("slot held twice")
				continue
			}
			seen[key] = a.ID
		}
	}
	return violations, nil
}

func (s *Simulator) send(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.config.APIBaseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, buf.Bytes(), nil
}

func (s *Simulator) getJSON(ctx context.Context, path string, out any) error {
	status, body, err := s.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, status)
	}
	return json.Unmarshal(body, out)
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Println()

	printOperationReport("Booking", &s.metrics.Booking)
	printOperationReport("Reschedule", &s.metrics.Reschedule)
	printOperationReport("Cancel", &s.metrics.Cancel)
	printOperationReport("Reads", &s.metrics.Read)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	failed := atomic.LoadInt64(&om.Error)

	avg, p50, p95, max := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if conflict > 0 {
		fmt.Printf("  Conflicts: %d (%.1f%%)\n", conflict, float64(conflict)/float64(total)*100)
	}
	if failed > 0 {
		fmt.Printf("  Rejected/errors: %d (%.1f%%)\n", failed, float64(failed)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s p50=%s p95=%s max=%s\n",
		avg.Round(time.Millisecond), p50.Round(time.Millisecond),
		p95.Round(time.Millisecond), max.Round(time.Millisecond))
	fmt.Println()
}
