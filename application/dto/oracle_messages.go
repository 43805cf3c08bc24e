package dto

// RandomnessRequestDTO is the message published to the oracle's request
// subject. RandomWords in the fulfillment are decimal strings so values
// larger than 64 bits survive the wire.
type RandomnessRequestDTO struct {
	RequestID        string `json:"request_id"`
	Confirmations    uint32 `json:"confirmations"`
	CallbackGasLimit uint32 `json:"callback_gas_limit"`
	NumWords         uint32 `json:"num_words"`
}

// RandomnessFulfillmentDTO is the message the oracle publishes on the
// fulfillment subject once a request's randomness is available
type RandomnessFulfillmentDTO struct {
	RequestID   string   `json:"request_id"`
	RandomWords []string `json:"random_words"`
}
