// Package helper chứa nghiệp vụ lõi: xếp lịch chiếu, sơ đồ ghế, phân bổ ghế
// và máy trạng thái booking/payment. Các lỗi nghiệp vụ được phân loại thành
// các kiểu riêng để handler dịch sang HTTP status tương ứng.
package helper

import "fmt"

// ValidationError: dữ liệu đầu vào sai hoặc ngoài miền hợp lệ
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

// ConflictError: trùng khung giờ phòng chiếu hoặc ghế đã có booking khác
type ConflictError struct {
	Reason  string
	SeatIds []uint
}

func (e *ConflictError) Error() string { return e.Reason }

// CapacityError: vượt giới hạn ghế của booking hoặc sức chứa phòng
type CapacityError struct {
	Reason string
}

func (e *CapacityError) Error() string { return e.Reason }

// AdjacencyError: lựa chọn ghế để lại một ghế trống đơn kẹt giữa
type AdjacencyError struct {
	Row    string
	Number int
}

func (e *AdjacencyError) Error() string {
	return fmt.Sprintf("lựa chọn để lại ghế trống đơn %s%d kẹt giữa", e.Row, e.Number)
}

// StateError: thao tác không hợp lệ với trạng thái hiện tại của bản ghi
type StateError struct {
	Reason string
}

func (e *StateError) Error() string { return e.Reason }

// NotFoundError: không tìm thấy bản ghi theo id
type NotFoundError struct {
	Entity string
	Id     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d không tồn tại", e.Entity, e.Id)
}
