package workload

// 許可判定はいずれも検証時点の Snapshot に対する純述語です。I/O は行いません。

// checkAssign は新規アサインが残容量に収まるかを判定します。
func checkAssign(snap Snapshot, requested int) error {
	if requested > snap.AvailableCapacity {
		return &CapacityExceededError{Requested: requested, Available: snap.AvailableCapacity}
	}
	return nil
}

// checkUpdate は関与率変更を判定します。置き換え対象である現在の関与率は
// 容量計算から除外します。
func checkUpdate(snap Snapshot, current, requested int) error {
	effective := snap.AvailableCapacity + current
	if requested > effective {
		return &CapacityExceededError{Requested: requested, Available: effective}
	}
	return nil
}

// checkInitiative は施策割り当てが Over & Beyond 残量に収まるかを判定します。
func checkInitiative(snap Snapshot, requested int) error {
	if requested > snap.OverBeyondAvailable {
		return &OverBeyondExceededError{Requested: requested, Available: snap.OverBeyondAvailable}
	}
	return nil
}
