package pagination

// LimitDefault is applied when a request does not specify a limit
const LimitDefault = 50

// LimitMax is the maximum allowed page size
const LimitMax = 500
