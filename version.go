package mailhook

// Version is the SDK version reported in the User-Agent header.
const Version = "0.1.0"

// userAgent identifies this client to the API.
const userAgent = "mailhook-go/" + Version
