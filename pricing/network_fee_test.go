package pricing

import "testing"

func TestNetworkFee(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		expected := NetworkFeeDay
		if hour < 6 || hour >= 22 {
			expected = NetworkFeeNight
		}
		if fee := NetworkFee(hour); fee != expected {
			t.Errorf("NetworkFee(%d) expected %v, got %v", hour, expected, fee)
		}
	}
}

func TestNetworkFeeBoundaries(t *testing.T) {
	tests := []struct {
		hour     int
		expected float64
	}{
		{5, NetworkFeeNight},
		{6, NetworkFeeDay},
		{21, NetworkFeeDay},
		{22, NetworkFeeNight},
		{0, NetworkFeeNight},
		{23, NetworkFeeNight},
	}
	for _, tt := range tests {
		if fee := NetworkFee(tt.hour); fee != tt.expected {
			t.Errorf("NetworkFee(%d) expected %v, got %v", tt.hour, tt.expected, fee)
		}
	}
}

func TestNetworkFeesPointWise(t *testing.T) {
	hoursOfDay := []int{0, 3, 6, 12, 21, 22, 23}
	fees := NetworkFees(hoursOfDay)
	if len(fees) != len(hoursOfDay) {
		t.Fatalf("expected %d fees, got %d", len(hoursOfDay), len(fees))
	}
	for i, h := range hoursOfDay {
		if fees[i] != NetworkFee(h) {
			t.Errorf("NetworkFees()[%d] differs from NetworkFee(%d)", i, h)
		}
	}
}
