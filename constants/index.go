package constants

const (
	ERROR_INPUT                = "Dữ liệu đầu vào không hợp lệ"
	ERROR_CREATE               = "Không thể tạo bản ghi"
	ERROR_EDIT                 = "Không thể cập nhật bản ghi"
	ERROR_INTERNAL_ERROR       = "Lỗi hệ thống"
	ERROR_PARSE_DATA_TO_LOCALS = "Không thể đọc dữ liệu từ locals"
	DATA_INPUT_IS_NOT_NUMBER   = "Dữ liệu đầu vào phải là số"
	NOT_FOUND_RECORDS          = "Không tìm thấy bản ghi"
	NOT_ADMIN                  = "Bạn không có thẩm quyền"
	MISSING_LOGIN_INPUT        = "Thiếu thông tin đăng nhập"
	INVALID_USERNAME           = "Tài khoản không tồn tại"
	INVALID_PASSWORD           = "Mật khẩu không chính xác"
	CAN_NOT_HASH_PASSWORD      = "Không thể mã hoá mật khẩu"
)

const (
	ROLE_ADMIN   = "ADMIN"
	ROLE_MANAGER = "MANAGER"
)

var ROLE = []string{ROLE_ADMIN, ROLE_MANAGER}

const (
	HALL_AVAILABLE   = "available"
	HALL_MAINTENANCE = "maintenance"
	HALL_CLOSED      = "closed"
)
