package production

// RequestState represents where a request is in its lifecycle
type RequestState string

const (
	// RequestWaiting - queued, not started
	RequestWaiting RequestState = "WAITING"

	// RequestWorking - a building is producing it
	RequestWorking RequestState = "WORKING"

	// RequestReady - produced (or handed over) and on its way to the requester
	RequestReady RequestState = "READY"
)

// ProbeRequestID marks hypothetical requests built by estimators; it never collides with a
// real identity
const ProbeRequestID = -1

// RequestIDs hands out strictly increasing request identities
type RequestIDs struct {
	next int
}

func NewRequestIDs() *RequestIDs {
	return &RequestIDs{}
}

// Next returns the current value and advances
func (g *RequestIDs) Next() int {
	id := g.next
	g.next++
	return id
}

// Peek returns the identity the next request will get
func (g *RequestIDs) Peek() int {
	return g.next
}

func (g *RequestIDs) Set(next int) {
	g.next = next
}

func (g *RequestIDs) Reset() {
	g.next = 0
}

// Request is a unit of demand for one recipe's output, or for waste disposal capacity.
// requester is the name of the building that receives the output; it is empty for user requests.
type Request struct {
	id          int
	recipe      *Recipe
	requester   string
	state       RequestState
	subRequests []*Request
	userRequest bool

	waste       bool
	wasteAmount int
}

// NewRequest creates a WAITING request with the next identity
func NewRequest(ids *RequestIDs, recipe *Recipe, requester string, userRequest bool) *Request {
	return &Request{
		id:          ids.Next(),
		recipe:      recipe,
		requester:   requester,
		state:       RequestWaiting,
		userRequest: userRequest,
	}
}

// NewWasteRequest creates a request that ships amount units of waste to the named disposal
func NewWasteRequest(ids *RequestIDs, disposal string, amount int) *Request {
	return &Request{
		id:          ids.Next(),
		requester:   disposal,
		state:       RequestWaiting,
		waste:       true,
		wasteAmount: amount,
	}
}

// NewProbeRequest creates a throwaway request for what-if estimation. It does not consume
// an identity.
func NewProbeRequest(recipe *Recipe) *Request {
	return &Request{id: ProbeRequestID, recipe: recipe, state: RequestWaiting}
}

// RestoreRequest rebuilds a request from persisted state
func RestoreRequest(id int, recipe *Recipe, requester string, state RequestState, userRequest bool) *Request {
	return &Request{
		id:          id,
		recipe:      recipe,
		requester:   requester,
		state:       state,
		userRequest: userRequest,
	}
}

// RestoreWasteRequest rebuilds a waste request from persisted state
func RestoreWasteRequest(id int, disposal string, amount int, state RequestState) *Request {
	return &Request{
		id:          id,
		requester:   disposal,
		state:       state,
		waste:       true,
		wasteAmount: amount,
	}
}

func (r *Request) ID() int {
	return r.id
}

func (r *Request) Recipe() *Recipe {
	return r.recipe
}

// Output is the produced item name, empty for waste requests
func (r *Request) Output() string {
	if r.recipe == nil {
		return ""
	}
	return r.recipe.Output()
}

func (r *Request) Requester() string {
	return r.requester
}

func (r *Request) State() RequestState {
	return r.state
}

func (r *Request) IsUserRequest() bool {
	return r.userRequest
}

func (r *Request) IsWaste() bool {
	return r.waste
}

// Amount is the waste quantity carried by a waste request
func (r *Request) Amount() int {
	return r.wasteAmount
}

func (r *Request) SubRequests() []*Request {
	out := make([]*Request, len(r.subRequests))
	copy(out, r.subRequests)
	return out
}

func (r *Request) AddSubRequest(sub *Request) {
	r.subRequests = append(r.subRequests, sub)
}

// Latency is the recipe latency, 0 for requests without a recipe
func (r *Request) Latency() int {
	if r.recipe == nil {
		return 0
	}
	return r.recipe.Latency()
}

// Start moves a WAITING request to WORKING
func (r *Request) Start() error {
	if r.state != RequestWaiting {
		return &ErrInvalidRequestTransition{RequestID: r.id, From: r.state, To: RequestWorking}
	}
	r.state = RequestWorking
	return nil
}

// Finish moves a WORKING request to READY
func (r *Request) Finish() error {
	if r.state != RequestWorking {
		return &ErrInvalidRequestTransition{RequestID: r.id, From: r.state, To: RequestReady}
	}
	r.state = RequestReady
	return nil
}

// IsReady reports whether every sub-request is READY and inv holds all ingredients
func (r *Request) IsReady(inv Inventory) bool {
	for _, sub := range r.subRequests {
		if sub.state != RequestReady {
			return false
		}
	}
	if r.recipe == nil {
		return true
	}
	return inv.Covers(r.recipe.ingredients)
}
