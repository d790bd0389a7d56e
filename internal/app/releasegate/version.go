package releasegate

// The version of the application, set on build with -ldflags "-X ...releasegate.Version=x.y.z".
var Version = "0.0.0-dev"
