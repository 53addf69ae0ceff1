package infra

import (
	"testing"
)

func TestMetrics_RecordPass(t *testing.T) {
	m := &Metrics{}

	m.RecordPass(1000, 2, 5)
	m.RecordPass(2000, 3, 5)
	m.RecordPass(3000, 1, 5)

	snap := m.Snapshot()

	if snap.PassesCompleted != 3 {
		t.Errorf("Expected 3 passes, got %d", snap.PassesCompleted)
	}
	if snap.CitiesCleared != 15 {
		t.Errorf("Expected 15 cities cleared, got %d", snap.CitiesCleared)
	}
	if snap.GroupsLastPass != 1 {
		t.Errorf("Expected last pass group count 1, got %d", snap.GroupsLastPass)
	}

	// Average latency: (1000 + 2000 + 3000) / 3 = 2000
	if snap.AvgLatencyNs != 2000 {
		t.Errorf("Expected avg latency 2000, got %d", snap.AvgLatencyNs)
	}
}

func TestMetrics_Connections(t *testing.T) {
	m := &Metrics{}

	m.IncrementConnections()
	m.IncrementConnections()
	m.IncrementConnections()

	snap := m.Snapshot()
	if snap.ActiveConnections != 3 {
		t.Errorf("Expected 3 connections, got %d", snap.ActiveConnections)
	}

	m.DecrementConnections()
	snap = m.Snapshot()
	if snap.ActiveConnections != 2 {
		t.Errorf("Expected 2 connections, got %d", snap.ActiveConnections)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := &Metrics{}

	m.RecordPass(1000, 1, 1)
	m.RecordError()
	m.IncrementConnections()

	m.Reset()
	snap := m.Snapshot()

	if snap.PassesCompleted != 0 {
		t.Error("Expected 0 passes after reset")
	}
	if snap.ErrorsTotal != 0 {
		t.Error("Expected 0 errors after reset")
	}
	if snap.ActiveConnections != 0 {
		t.Error("Expected 0 connections after reset")
	}
}
