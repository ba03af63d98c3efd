package logistics

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"agrimarket/db"
	"agrimarket/utils"

	"github.com/julienschmidt/httprouter"
)

var tables = NewDefaultTables()

func decodeRequest(w http.ResponseWriter, r *http.Request) (Request, bool) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	if req.OriginCountry == "" || req.DestinationCountry == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Origin and destination countries are required")
		return req, false
	}
	if req.Weight <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Weight must be greater than 0")
		return req, false
	}
	return req, true
}

// CalculateShipping prices one shipment and persists the quote for its
// 24-hour validity window.
func CalculateShipping(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	quote := tables.Price(req, time.Now())
	if _, err := db.QuotesCollection.InsertOne(ctx, quote); err != nil {
		log.Println("CalculateShipping persist error:", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, quote)
}

// GetMultipleQuotes prices every mode available on the route, cheapest
// first.
func GetMultipleQuotes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, tables.MultiQuote(req, time.Now()))
}

// GetDeliveryEstimate answers schedule only, no pricing.
func GetDeliveryEstimate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OriginCountry == "" || req.DestinationCountry == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Origin and destination countries are required")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, Estimate(req, time.Now()))
}

// GetShippingMethods lists the bookable modes on a route.
func GetShippingMethods(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "from and to query parameters are required")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, tables.Methods(from, to))
}

// GetCarriers lists carriers serving a route.
func GetCarriers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "from and to query parameters are required")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, tables.Carriers(from, to))
}

// GetCustomsInfo returns the duty sheet for a route and HS code.
func GetCustomsInfo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	hsCode := r.URL.Query().Get("hsCode")
	if from == "" || to == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "from and to query parameters are required")
		return
	}
	if hsCode == "" {
		hsCode = "0701.90"
	}
	utils.RespondWithJSON(w, http.StatusOK, tables.Customs(from, to, hsCode))
}

// GetBulkQuote consolidates several shipments into one discounted
// sea-freight quote.
func GetBulkQuote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var requests []Request
	if err := json.NewDecoder(r.Body).Decode(&requests); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	quote := tables.BulkQuote(requests, time.Now())
	if quote == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "At least one shipment is required")
		return
	}

	if _, err := db.QuotesCollection.InsertOne(ctx, quote); err != nil {
		log.Println("GetBulkQuote persist error:", err)
	}
	utils.RespondWithJSON(w, http.StatusOK, quote)
}

type trackingEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
}

// TrackShipment is a simulated carrier lookup until real carrier APIs are
// wired in.
func TrackShipment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	trackingNumber := ps.ByName("trackingnumber")
	carrier := r.URL.Query().Get("carrier")

	now := time.Now()
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"trackingNumber":    trackingNumber,
		"carrier":           carrier,
		"status":            "In Transit",
		"currentLocation":   "Distribution Center",
		"estimatedDelivery": now.AddDate(0, 0, 3),
		"lastUpdate":        now,
		"events": []trackingEvent{
			{Timestamp: now.AddDate(0, 0, -2), Location: "Origin Warehouse", Status: "Package Picked Up", Description: "Package has been picked up by carrier"},
			{Timestamp: now.AddDate(0, 0, -1), Location: "Transit Hub", Status: "In Transit", Description: "Package is in transit to destination"},
			{Timestamp: now, Location: "Distribution Center", Status: "Out for Delivery", Description: "Package is out for delivery"},
		},
	})
}
