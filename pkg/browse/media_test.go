package browse

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		url  string
		want Kind
	}{
		{"clip.MP4", KindVideo},
		{"https://cdn.example.com/media/reel.webm", KindVideo},
		{"/media/event.mov", KindVideo},
		{"song.ogg", KindVideo},
		{"photo.jpg", KindImage},
		{"https://cdn.example.com/media/banner.png?w=480", KindImage},
		{"/media/clip.mp4?download=1", KindVideo},
		{"scan.pdf", KindImage},
		{"", KindNone},
	}

	for _, tc := range cases {
		if got := Classify(tc.url); got != tc.want {
			t.Fatalf("Classify(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
