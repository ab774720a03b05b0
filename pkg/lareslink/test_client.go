package lareslink

// CreateSimulatedSessionClient returns a SessionClient backed by canned
// snapshots resembling a small Lares 4.0 installation. Used by tests and by
// the bridge in simulate mode.
func CreateSimulatedSessionClient() (SessionClient, error) {
	return SimulatedSessionClient{}, nil
}

type SimulatedSessionClient struct {
}

func (c SimulatedSessionClient) GetDom() ([]Record, error) {
	return []Record{
		{
			"ID":  "1",
			"NM":  "Living room probe",
			"T":   "+21.5",
			"H":   "47",
			"STA": "ok",
		},
		{
			"ID":  "2",
			"LBL": "Cellar probe",
			"T":   "",
			"H":   "61",
			"STA": "ok",
		},
	}, nil
}

func (c SimulatedSessionClient) GetSensor(category string) ([]Record, error) {
	switch category {
	case "POWER_LINES":
		return []Record{
			{
				"ID":     "1",
				"DES":    "Main line",
				"PCONS":  "1250.5",
				"PPROD":  "320",
				"STATUS": "on",
			},
		}, nil
	case "PARTITIONS":
		return []Record{
			{
				"ID":  "1",
				"DES": "Ground floor",
				"STA": "disarmed",
				"STAT": []any{
					map[string]any{
						"VAL": []any{
							map[string]any{"ENC": "1.5"},
							map[string]any{"ENC": "2.5"},
						},
					},
				},
			},
			{
				"ID":  "2",
				"DES": "Night zone",
				"STA": "armed",
			},
		}, nil
	case "ZONES":
		return []Record{
			{"ID": "1", "DES": "Entrance door", "STA": "idle", "BYP": "no"},
			{"ID": "2", "DES": "Kitchen window", "STA": "alarm", "BYP": "no"},
		}, nil
	default:
		return nil, nil
	}
}

func (c SimulatedSessionClient) GetSystem() ([]Record, error) {
	return []Record{
		{
			"ID":  "1",
			"ARM": "DISARMED",
			"TEMP": map[string]any{
				"IN":  "+22.1",
				"OUT": "9.5",
			},
		},
	}, nil
}
