package models

// UserAgent is sent with every request to the attendance API.
const UserAgent = "horae/1.0 (+https://github.com/UnknownOlympus/horae)"
