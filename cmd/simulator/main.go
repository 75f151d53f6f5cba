package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Place mirrors the API's geocoded place descriptor.
type Place struct {
	Description string   `json:"description"`
	PlaceRef    string   `json:"place_ref"`
	Terms       []string `json:"terms"`
}

var places = []Place{
	{Description: "Avenue Habib Bourguiba, Tunis", PlaceRef: "pl_tunis_centre", Terms: []string{"Avenue Habib Bourguiba", "Tunis", "Tunisia"}},
	{Description: "12 Rue du Parc, Soukra", PlaceRef: "pl_soukra", Terms: []string{"12 Rue du Parc", "Soukra", "Tunisia"}},
	{Description: "Gare Routière, Sousse", PlaceRef: "pl_sousse", Terms: []string{"Gare Routière", "Sousse", "Tunisia"}},
	{Description: "Médina, Sfax", PlaceRef: "pl_sfax", Terms: []string{"Médina", "Sfax", "Tunisia"}},
	{Description: "Centre Ville, Bizerte", PlaceRef: "pl_bizerte", Terms: []string{"Centre Ville", "Bizerte", "Tunisia"}},
	{Description: "Place du 7 Novembre, Nabeul", PlaceRef: "pl_nabeul", Terms: []string{"Place du 7 Novembre", "Nabeul", "Tunisia"}},
	{Description: "Avenue de la Liberté, Monastir", PlaceRef: "pl_monastir", Terms: []string{"Avenue de la Liberté", "Monastir", "Tunisia"}},
	{Description: "Route de Gabès, Kairouan", PlaceRef: "pl_kairouan", Terms: []string{"Route de Gabès", "Kairouan", "Tunisia"}},
}

var (
	firstNames = []string{"Amine", "Sami", "Leila", "Imen", "Karim", "Nour", "Yassine", "Rania"}
	lastNames  = []string{"Ben Ali", "Trabelsi", "Gharbi", "Bouazizi", "Haddad", "Mansour"}
	carMakes   = []string{"Peugeot", "Renault", "Volkswagen", "Kia", "Fiat"}
	carColors  = []string{"white", "black", "grey", "red", "blue"}
)

type account struct {
	ID    string
	Token string
}

type client struct {
	apiURL string
	http   *http.Client
}

func newClient(apiURL string) *client {
	return &client{apiURL: apiURL, http: &http.Client{Timeout: 10 * time.Second}}
}

func (c *client) post(path, token string, body interface{}, out interface{}) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequest(http.MethodPost, c.apiURL+path, bytes.NewBuffer(data))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

func (c *client) register() (*account, error) {
	email := fmt.Sprintf("sim-%d@wassalni.tn", rand.Int63())
	reg := map[string]interface{}{
		"first_name": firstNames[rand.Intn(len(firstNames))],
		"last_name":  lastNames[rand.Intn(len(lastNames))],
		"email":      email,
		"password":   "simulator-pass-123",
		"phone":      fmt.Sprintf("+216%08d", rand.Intn(100000000)),
		"birth_date": time.Date(1980+rand.Intn(25), time.Month(1+rand.Intn(12)), 1+rand.Intn(28), 0, 0, 0, 0, time.UTC),
		"gender":     []string{"male", "female"}[rand.Intn(2)],
	}
	status, err := c.post("/api/auth/register", "", reg, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("register failed with status %d", status)
	}

	var login struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	status, err = c.post("/api/auth/login", "", map[string]string{"email": email, "password": "simulator-pass-123"}, &login)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("login failed with status %d", status)
	}
	return &account{ID: login.User.ID, Token: login.Token}, nil
}

func (c *client) publishTrip(driver *account) (string, error) {
	departure := places[rand.Intn(len(places))]
	arrival := places[rand.Intn(len(places))]
	for arrival.PlaceRef == departure.PlaceRef {
		arrival = places[rand.Intn(len(places))]
	}
	distance := 20 + rand.Float64()*280
	trip := map[string]interface{}{
		"departure":           departure,
		"arrival":             arrival,
		"departure_date":      time.Now().Add(time.Duration(1+rand.Intn(14)) * 24 * time.Hour),
		"departure_time":      fmt.Sprintf("%02d:%02d", 6+rand.Intn(14), []int{0, 15, 30, 45}[rand.Intn(4)]),
		"distance":            distance,
		"duration":            distance / 70 * 60,
		"total_seats":         1 + rand.Intn(4),
		"price_per_seat":      5 + rand.Float64()*40,
		"smoker":              rand.Intn(4) == 0,
		"pets":                rand.Intn(4) == 0,
		"women_only":          rand.Intn(8) == 0,
		"max_rear_passengers": 2 + rand.Intn(2),
		"car_make":            carMakes[rand.Intn(len(carMakes))],
		"car_color":           carColors[rand.Intn(len(carColors))],
	}
	var created struct {
		ID string `json:"id"`
	}
	status, err := c.post("/api/trips", driver.Token, trip, &created)
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		return "", fmt.Errorf("trip creation failed with status %d", status)
	}
	log.WithFields(log.Fields{
		"trip_id":   created.ID,
		"departure": departure.Description,
		"arrival":   arrival.Description,
	}).Info("Published trip")
	return created.ID, nil
}

func (c *client) reserve(passenger *account, tripID string) (string, error) {
	body := map[string]interface{}{
		"trip_id":     tripID,
		"seats":       1 + rand.Intn(2),
		"total_price": 10 + rand.Float64()*60,
		"message":     "Merci de me prendre au passage !",
	}
	var created struct {
		ID string `json:"id"`
	}
	status, err := c.post("/api/reservations", passenger.Token, body, &created)
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		return "", fmt.Errorf("reservation failed with status %d", status)
	}
	return created.ID, nil
}

func main() {
	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}
	userCount := 6
	if v := os.Getenv("SIM_USERS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 1 {
			userCount = parsed
		}
	}

	c := newClient(apiURL)
	accounts := make([]*account, 0, userCount)
	for i := 0; i < userCount; i++ {
		acc, err := c.register()
		if err != nil {
			log.WithError(err).Fatal("Failed to register simulated user")
		}
		accounts = append(accounts, acc)
	}
	log.WithField("users", len(accounts)).Info("Simulated users registered")

	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		driver := accounts[rand.Intn(len(accounts))]
		tripID, err := c.publishTrip(driver)
		if err != nil {
			log.WithError(err).Warn("Trip publication failed")
			continue
		}

		reservationIDs := []string{}
		for _, acc := range accounts {
			if acc == driver || rand.Intn(2) == 0 {
				continue
			}
			id, err := c.reserve(acc, tripID)
			if err != nil {
				log.WithError(err).Debug("Reservation rejected")
				continue
			}
			reservationIDs = append(reservationIDs, id)
		}

		for _, id := range reservationIDs {
			action := "accept"
			if rand.Intn(4) == 0 {
				action = "refuse"
			}
			status, err := c.post("/api/reservations/"+id+"/"+action, driver.Token, map[string]string{}, nil)
			if err != nil || status != http.StatusOK {
				log.WithFields(log.Fields{"reservation_id": id, "status": status}).Warn("Transition failed")
				continue
			}
			log.WithFields(log.Fields{"reservation_id": id, "action": action}).Info("Reservation handled")
		}

		// Occasionally tear a trip down to exercise the archive cascade.
		if rand.Intn(5) == 0 {
			req, err := http.NewRequest(http.MethodDelete, apiURL+"/api/trips/"+tripID, nil)
			if err == nil {
				req.Header.Set("Authorization", "Bearer "+driver.Token)
				if resp, err := c.http.Do(req); err == nil {
					resp.Body.Close()
					log.WithField("trip_id", tripID).Info("Trip deleted")
				}
			}
		}
	}
}
