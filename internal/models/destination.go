package models

// Варианты назначения при входе в курс. Порядок проверки строгий:
// владение курсом важнее незакрытого заказа, иначе оплатившего
// пользователя можно снова отправить на оплату.
const (
	DestinationResumeLesson = "resume_lesson" // Продолжить с урока
	DestinationPaymentStep  = "payment_step"  // Перейти к оплате существующего заказа
	DestinationCreateOrder  = "create_order"  // Оформить новый заказ
)

// Destination указывает, куда направить пользователя при входе в курс.
// Заполнено либо UnitID (resume_lesson), либо OrderNo (payment_step);
// для create_order оба поля пустые.
type Destination struct {
	Kind    string `json:"kind"`
	UnitID  int    `json:"unit_id,omitempty"`
	OrderNo string `json:"order_no,omitempty"`
}
