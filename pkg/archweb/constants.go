package archweb

// Endpoint is the archlinux.org package search API
const Endpoint = "https://archlinux.org/packages/search/json/"
